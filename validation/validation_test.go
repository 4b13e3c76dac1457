package validation

import (
	"errors"
	"testing"

	"github.com/saiset-co/sai-pipeline/types"
)

type createUser struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"omitempty,email"`
	Age   int    `json:"age" validate:"omitempty,min=18"`
}

func validationError(t *testing.T, err error) *types.ValidationError {
	t.Helper()
	if err == nil {
		t.Fatal("expected a validation error, got nil")
	}
	verr, ok := err.(*types.ValidationError)
	if !ok {
		t.Fatalf("error is %T, want *types.ValidationError", err)
	}
	return verr
}

func TestStructValidatorParsesBody(t *testing.T) {
	parsed, err := Struct[createUser]().Parse([]byte(`{"name":"alice","age":30}`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	user, ok := parsed.(createUser)
	if !ok {
		t.Fatalf("parsed value is %T, want createUser", parsed)
	}
	if user.Name != "alice" || user.Age != 30 {
		t.Fatalf("parsed value = %+v", user)
	}
}

func TestStructValidatorMissingRequiredField(t *testing.T) {
	_, err := Struct[createUser]().Parse([]byte(`{"age":30}`))

	verr := validationError(t, err)
	if _, ok := verr.Fields["name"]; !ok {
		t.Fatalf("fields = %v, want entry for name", verr.Fields)
	}
}

func TestStructValidatorFieldPathUsesJSONTag(t *testing.T) {
	type form struct {
		UserName string `json:"user_name" validate:"required"`
	}

	_, err := Struct[form]().Parse([]byte(`{}`))

	verr := validationError(t, err)
	if _, ok := verr.Fields["user_name"]; !ok {
		t.Fatalf("fields = %v, want entry keyed by json tag", verr.Fields)
	}
}

func TestStructValidatorNestedFieldPath(t *testing.T) {
	type address struct {
		City string `json:"city" validate:"required"`
	}
	type order struct {
		Name    string  `json:"name" validate:"required"`
		Address address `json:"address"`
	}

	_, err := Struct[order]().Parse([]byte(`{"name":"book"}`))

	verr := validationError(t, err)
	if _, ok := verr.Fields["address.city"]; !ok {
		t.Fatalf("fields = %v, want nested path address.city", verr.Fields)
	}
}

func TestStructValidatorTagWithParam(t *testing.T) {
	_, err := Struct[createUser]().Parse([]byte(`{"name":"alice","age":10}`))

	verr := validationError(t, err)
	messages, ok := verr.Fields["age"]
	if !ok || len(messages) != 1 {
		t.Fatalf("fields = %v, want single message for age", verr.Fields)
	}
	if messages[0] != "failed on 'min=18'" {
		t.Fatalf("message = %q", messages[0])
	}
}

func TestStructValidatorMalformedJSON(t *testing.T) {
	_, err := Struct[createUser]().Parse([]byte(`{"name":`))

	verr := validationError(t, err)
	if _, ok := verr.Fields["$"]; !ok {
		t.Fatalf("fields = %v, want entry for $", verr.Fields)
	}
}

func TestStructValidatorCoercesStringMap(t *testing.T) {
	type listQuery struct {
		Page   int  `json:"page" validate:"omitempty,min=1"`
		Active bool `json:"active"`
	}

	parsed, err := Struct[listQuery]().Parse(map[string]string{
		"page":   "2",
		"active": "true",
	})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	query := parsed.(listQuery)
	if query.Page != 2 || !query.Active {
		t.Fatalf("parsed value = %+v", query)
	}
}

func TestStructValidatorCoercionFailure(t *testing.T) {
	type listQuery struct {
		Page int `json:"page"`
	}

	_, err := Struct[listQuery]().Parse(map[string]string{"page": "abc"})

	verr := validationError(t, err)
	if _, ok := verr.Fields["page"]; !ok {
		t.Fatalf("fields = %v, want entry for page", verr.Fields)
	}
}

func TestStructValidatorUnsupportedInput(t *testing.T) {
	_, err := Struct[createUser]().Parse(42)

	if err == nil {
		t.Fatal("expected an error")
	}
	if _, ok := err.(*types.ValidationError); ok {
		t.Fatal("unsupported input must not be reported as a validation error")
	}
	if !errors.Is(err, types.ErrUnsupportedPayload) {
		t.Fatalf("error = %v, want ErrUnsupportedPayload", err)
	}
}

func TestMapValidatorPasses(t *testing.T) {
	parsed, err := Map(map[string]string{
		"token": "required",
		"email": "omitempty,email",
	}).Parse(map[string]string{
		"token": "abc123",
		"email": "user@example.com",
	})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	values := parsed.(map[string]interface{})
	if values["token"] != "abc123" {
		t.Fatalf("parsed value = %v", values)
	}
}

func TestMapValidatorMissingRequiredKey(t *testing.T) {
	_, err := Map(map[string]string{"token": "required"}).Parse(map[string]string{})

	verr := validationError(t, err)
	if _, ok := verr.Fields["token"]; !ok {
		t.Fatalf("fields = %v, want entry for token", verr.Fields)
	}
}

func TestMapValidatorDecodesJSONBody(t *testing.T) {
	parsed, err := Map(map[string]string{"name": "required"}).Parse([]byte(`{"name":"alice"}`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	values := parsed.(map[string]interface{})
	if values["name"] != "alice" {
		t.Fatalf("parsed value = %v", values)
	}
}

func TestMapValidatorEmptyRule(t *testing.T) {
	_, err := Map(map[string]string{"token": ""}).Parse(map[string]string{"token": "x"})

	if err == nil {
		t.Fatal("expected an error")
	}
	if !errors.Is(err, types.ErrValidationRuleEmpty) {
		t.Fatalf("error = %v, want ErrValidationRuleEmpty", err)
	}
}
