package utils

import (
	"errors"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// MaxPasswordBytes is the most bcrypt will hash.
const MaxPasswordBytes = 72

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = validate.RegisterValidation("notblank", validators.NotBlank)
	_ = validate.RegisterValidation("maxbytes", maxBytes)
	_ = validate.RegisterValidation("mailbox", func(fl validator.FieldLevel) bool {
		return IsEmail(fl.Field().String())
	})
}

// maxbytes=N limits the byte length of a string, unlike max which counts runes.
func maxBytes(fl validator.FieldLevel) bool {
	n, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(fl.Field().String()) <= n
}

// FieldErrors runs the `validate` tags of s and returns the first failed tag
// per field, keyed by the field's json name. nil means s is valid.
func FieldErrors(s any) (map[string]string, error) {
	err := validate.Struct(s)
	if err == nil {
		return nil, nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return nil, err
	}
	out := make(map[string]string, len(ves))
	for _, fe := range ves {
		if _, ok := out[fe.Field()]; !ok {
			out[fe.Field()] = fe.Tag()
		}
	}
	return out, nil
}
