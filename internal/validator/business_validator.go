package validator

import (
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/agenda-academica/academic-service/internal/models"
)

const (
	PhoneMinLength = 10
	PhoneMaxLength = 15

	// PasswordMaxBytes is the longest input bcrypt accepts
	PasswordMaxBytes = 72
)

// BusinessValidator holds the rules that do not fit a struct tag
type BusinessValidator struct{}

func registerRules(v *validator.Validate) {
	v.RegisterValidation("ra", func(fl validator.FieldLevel) bool {
		return IsValidRA(fl.Field().String())
	})

	v.RegisterValidation("telefone", func(fl validator.FieldLevel) bool {
		return IsValidPhone(fl.Field().String())
	})

	v.RegisterValidation("data", func(fl validator.FieldLevel) bool {
		_, err := ParseDate(fl.Field().String())
		return err == nil
	})

	v.RegisterValidation("not_blank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	// max counts runes, bcrypt counts bytes
	v.RegisterValidation("senha", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= PasswordMaxBytes
	})
}

// IsValidRA reports whether ra is exactly 13 ASCII digits
func IsValidRA(ra string) bool {
	if len(ra) != models.RALength {
		return false
	}
	for _, r := range ra {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// IsValidPhone accepts 10 to 15 characters. A leading + marks the international form.
func IsValidPhone(phone string) bool {
	phone = strings.TrimSpace(phone)
	if len(phone) < PhoneMinLength || len(phone) > PhoneMaxLength {
		return false
	}
	for i, r := range phone {
		if r == '+' && i == 0 {
			continue
		}
		if !unicode.IsDigit(r) && !strings.ContainsRune(" ()-.", r) {
			return false
		}
	}
	return true
}

// ParseDate parses a YYYY-MM-DD date in UTC
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(models.DateFormat, strings.TrimSpace(s), time.UTC)
}

// ValidateWeekday checks dia_semana, 1 (Monday) to 6 (Saturday)
func (bv *BusinessValidator) ValidateWeekday(day int) ValidationErrors {
	if day < 1 || day > 6 {
		return ValidationErrors{{
			Field:   "dia_semana",
			Message: "dia da semana deve estar entre 1 e 6",
			Value:   day,
			Rule:    "business_logic",
		}}
	}
	return nil
}

// ValidateDateType checks the id against the seeded catalog range
func (bv *BusinessValidator) ValidateDateType(id uint) ValidationErrors {
	if id < models.MinDateTypeID || id > models.MaxDateTypeID {
		return ValidationErrors{{
			Field:   "id_tipo_data",
			Message: "tipo de data deve ser 1 (Falta), 2 (Não Letivo) ou 3 (Letivo)",
			Value:   id,
			Rule:    "business_logic",
		}}
	}
	return nil
}

// ValidateDate parses raw and reports a field error on failure
func (bv *BusinessValidator) ValidateDate(field, raw string) (time.Time, ValidationErrors) {
	t, err := ParseDate(raw)
	if err != nil {
		return time.Time{}, ValidationErrors{{
			Field:   field,
			Message: "data deve estar no formato YYYY-MM-DD",
			Value:   raw,
			Rule:    "data",
		}}
	}
	return t, nil
}
