package validation

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/saiset-co/sai-pipeline/types"
	"github.com/saiset-co/sai-pipeline/utils"
)

// MapValidator validates loose key/value input against per-field rule
// strings, for query or params channels where a dedicated struct is overkill.
// Missing fields are validated as empty strings, so 'required' behaves as
// expected.
type MapValidator struct {
	rules    map[string]string
	validate *validator.Validate
}

func Map(rules map[string]string) *MapValidator {
	return &MapValidator{rules: rules, validate: defaultValidate}
}

func (m *MapValidator) Parse(raw interface{}) (interface{}, error) {
	input, err := m.decode(raw)
	if err != nil {
		return nil, err
	}

	verr := types.NewValidationError()

	for field, rule := range m.rules {
		if rule == "" {
			return nil, types.Errorf(types.ErrValidationRuleEmpty, "field %s", field)
		}

		if err := m.validate.Var(input[field], rule); err != nil {
			ferrs, ok := err.(validator.ValidationErrors)
			if !ok {
				return nil, err
			}
			for _, fe := range ferrs {
				verr.Add(field, fieldMessage(fe))
			}
		}
	}

	if !verr.Empty() {
		return nil, verr
	}

	return input, nil
}

func (m *MapValidator) decode(raw interface{}) (map[string]interface{}, error) {
	switch input := raw.(type) {
	case map[string]string:
		decoded := make(map[string]interface{}, len(input))
		for key, value := range input {
			decoded[key] = value
		}
		return decoded, nil
	case []byte:
		decoded := make(map[string]interface{})
		if len(input) > 0 {
			if err := utils.Unmarshal(input, &decoded); err != nil {
				verr := types.NewValidationError()
				verr.Add("$", fmt.Sprintf("invalid JSON: %v", err))
				return nil, verr
			}
		}
		return decoded, nil
	default:
		return nil, types.Errorf(types.ErrUnsupportedPayload, "%T", raw)
	}
}
