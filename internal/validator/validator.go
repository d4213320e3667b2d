package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError describes one rejected field
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
	Rule    string      `json:"rule,omitempty"`
}

type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	if len(ve) == 1 {
		return fmt.Sprintf("validation failed: %s %s", ve[0].Field, ve[0].Message)
	}
	return fmt.Sprintf("validation failed: %d field errors", len(ve))
}

// First returns the message of the first error, used as the envelope message
func (ve ValidationErrors) First() string {
	if len(ve) == 0 {
		return "Dados inválidos"
	}
	return ve[0].Field + ": " + ve[0].Message
}

// Validator wraps go-playground/validator with the service rules registered
type Validator struct {
	validate *validator.Validate
	business *BusinessValidator
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)
	registerRules(v)

	return &Validator{
		validate: v,
		business: &BusinessValidator{},
	}
}

// Validate runs struct validation and returns ValidationErrors or nil
func (v *Validator) Validate(s interface{}) error {
	if err := v.validate.Struct(s); err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// Var validates a single value against tag
func (v *Validator) Var(field string, value interface{}, tag string) error {
	if err := v.validate.Var(value, tag); err != nil {
		ve := ToValidationErrors(err)
		for i := range ve {
			ve[i].Field = field
		}
		return ve
	}
	return nil
}

func (v *Validator) GetBusinessValidator() *BusinessValidator {
	return v.business
}

// Engine exposes the underlying validator, gin binding reuses it
func (v *Validator) Engine() *validator.Validate {
	return v.validate
}

// ToValidationErrors converts go-playground errors into ValidationErrors
func ToValidationErrors(err error) ValidationErrors {
	if err == nil {
		return nil
	}

	var already ValidationErrors
	if errors.As(err, &already) {
		return already
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return ValidationErrors{{Field: "body", Message: err.Error(), Rule: "invalid"}}
	}

	out := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, ValidationError{
			Field:   fe.Field(),
			Message: messageFor(fe),
			Value:   fe.Value(),
			Rule:    fe.Tag(),
		})
	}
	return out
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "campo obrigatório"
	case "email":
		return "email inválido"
	case "min":
		if isNumeric(fe.Kind()) {
			return "deve ser maior ou igual a " + fe.Param()
		}
		return "deve ter no mínimo " + fe.Param() + " caracteres"
	case "max":
		if isNumeric(fe.Kind()) {
			return "deve ser menor ou igual a " + fe.Param()
		}
		return "deve ter no máximo " + fe.Param() + " caracteres"
	case "gte":
		return "deve ser maior ou igual a " + fe.Param()
	case "lte":
		return "deve ser menor ou igual a " + fe.Param()
	case "ra":
		return "RA deve conter exatamente 13 dígitos numéricos"
	case "telefone":
		return "telefone inválido"
	case "data":
		return "data deve estar no formato YYYY-MM-DD"
	case "not_blank":
		return "não pode ser vazio"
	case "senha":
		return "senha deve ter no máximo 72 bytes"
	default:
		return "valor inválido (" + fe.Tag() + ")"
	}
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
