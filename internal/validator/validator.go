package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	playground "github.com/go-playground/validator/v10"
)

var (
	phoneRegex   = regexp.MustCompile(`^(\+234|0)[789][01]\d{8}$`)
	pinRegex     = regexp.MustCompile(`^\d{4}$`)
	accountRegex = regexp.MustCompile(`^\d{10}$`)
)

// FieldError names one rejected request field.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fmt.Sprintf("%s failed %s", fe.Field, fe.Rule))
	}
	return strings.Join(parts, "; ")
}

var (
	once     sync.Once
	instance *playground.Validate
)

func get() *playground.Validate {
	once.Do(func() {
		v := playground.New(playground.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
			if name == "" || name == "-" {
				return field.Name
			}
			return name
		})
		_ = v.RegisterValidation("ngphone", func(fl playground.FieldLevel) bool {
			return phoneRegex.MatchString(fl.Field().String())
		})
		_ = v.RegisterValidation("pin", func(fl playground.FieldLevel) bool {
			return pinRegex.MatchString(fl.Field().String())
		})
		_ = v.RegisterValidation("accountno", func(fl playground.FieldLevel) bool {
			return accountRegex.MatchString(fl.Field().String())
		})
		instance = v
	})
	return instance
}

// Struct validates tagged request structs and reports failures by json field name.
func Struct(value any) error {
	err := get().Struct(value)
	if err == nil {
		return nil
	}
	var invalid playground.ValidationErrors
	if !errors.As(err, &invalid) {
		return err
	}
	out := make(Errors, 0, len(invalid))
	for _, fe := range invalid {
		out = append(out, FieldError{Field: fe.Field(), Rule: fe.Tag()})
	}
	return out
}
