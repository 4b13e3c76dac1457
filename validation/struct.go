package validation

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/saiset-co/sai-pipeline/types"
	"github.com/saiset-co/sai-pipeline/utils"
)

// StructValidator decodes a channel's raw input into T (sonic for body JSON,
// field-wise coercion for query/params maps) and validates it against T's
// struct tags. The parsed value handed back to the pipeline is a T.
type StructValidator[T any] struct {
	validate *validator.Validate
}

func Struct[T any]() *StructValidator[T] {
	return &StructValidator[T]{validate: defaultValidate}
}

func (s *StructValidator[T]) Parse(raw interface{}) (interface{}, error) {
	var target T

	switch input := raw.(type) {
	case []byte:
		if len(input) > 0 {
			if err := utils.Unmarshal(input, &target); err != nil {
				verr := types.NewValidationError()
				verr.Add("$", "invalid JSON: "+err.Error())
				return nil, verr
			}
		}
	case map[string]string:
		if err := decodeStringMap(input, &target); err != nil {
			return nil, err
		}
	default:
		return nil, types.Errorf(types.ErrUnsupportedPayload, "%T", raw)
	}

	if err := s.validate.Struct(&target); err != nil {
		return nil, translate(err)
	}

	return target, nil
}

// decodeStringMap sets flat struct fields from a string map, coercing
// numeric and boolean kinds. Field names follow the json tag.
func decodeStringMap(input map[string]string, target interface{}) error {
	value := reflect.ValueOf(target).Elem()
	if value.Kind() != reflect.Struct {
		return types.Errorf(types.ErrUnsupportedPayload, "cannot decode map into %s", value.Kind())
	}

	structType := value.Type()
	verr := types.NewValidationError()

	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		if !field.IsExported() {
			continue
		}

		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			continue
		}
		if name == "" {
			name = field.Name
		}

		raw, exists := input[name]
		if !exists {
			continue
		}

		if err := setField(value.Field(i), raw); err != nil {
			verr.Add(name, err.Error())
		}
	}

	if !verr.Empty() {
		return verr
	}
	return nil
}

func setField(field reflect.Value, raw string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(raw)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return types.NewErrorf("not an integer")
		}
		field.SetInt(parsed)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return types.NewErrorf("not an unsigned integer")
		}
		field.SetUint(parsed)
	case reflect.Float32, reflect.Float64:
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return types.NewErrorf("not a number")
		}
		field.SetFloat(parsed)
	case reflect.Bool:
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return types.NewErrorf("not a boolean")
		}
		field.SetBool(parsed)
	default:
		return types.NewErrorf("unsupported field kind %s", field.Kind())
	}

	return nil
}
