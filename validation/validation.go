package validation

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/saiset-co/sai-pipeline/types"
)

var defaultValidate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})

	return v
}

// translate converts validator.ValidationErrors into the structured error the
// lifecycle callbacks receive. Field paths are preserved (minus the root
// struct name); any other error type passes through untouched so the
// orchestrator can surface it as a contract violation.
func translate(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	structured := types.NewValidationError()
	for _, fe := range verrs {
		structured.Add(fieldPath(fe), fieldMessage(fe))
	}

	return structured
}

func fieldPath(fe validator.FieldError) string {
	path := fe.Namespace()
	if idx := strings.Index(path, "."); idx >= 0 {
		return path[idx+1:]
	}
	return path
}

func fieldMessage(fe validator.FieldError) string {
	if fe.Param() != "" {
		return "failed on '" + fe.ActualTag() + "=" + fe.Param() + "'"
	}
	return "failed on '" + fe.ActualTag() + "'"
}
