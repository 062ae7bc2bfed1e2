package httpapi

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	validator "github.com/go-playground/validator/v10"

	"github.com/dmitrijs2005/guestwifi/internal/common"
)

var serialRe = regexp.MustCompile(`^[A-Za-z0-9]{4}-[A-Za-z0-9]{4}-[A-Za-z0-9]{4}$`)

// tagMessages holds the invalid-params text reported for each failing tag.
var tagMessages = map[string]string{
	"required":     "Must not be empty",
	"notblank":     "Must not be empty",
	"serial":       "Invalid serial number",
	"email":        "Invalid email address",
	"alphaunicode": "Must contain letters only",
}

func newValidator() *validator.Validate {
	validate := validator.New(validator.WithRequiredStructEnabled())

	// Report JSON field names in invalid-params.
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	mustRegister(validate, "serial", func(fl validator.FieldLevel) bool {
		return serialRe.MatchString(fl.Field().String())
	})
	mustRegister(validate, "notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	return validate
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

// validateRequest checks req against its validate tags and lists every
// failing field.
func validateRequest(v *validator.Validate, req any) error {
	err := v.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return common.Internal(err)
	}

	params := make([]common.InvalidParam, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msg, ok := tagMessages[fe.Tag()]
		if !ok {
			msg = "Invalid value"
		}
		params = append(params, common.InvalidParam{Param: fe.Field(), Msg: msg})
	}
	return common.Validation(params...)
}
