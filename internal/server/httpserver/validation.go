package httpserver

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// registerValidators installs the custom binding rules on gin's shared
// validator engine.
func registerValidators() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = errors.New("unexpected binding validator engine")
			return
		}
		v.RegisterTagNameFunc(jsonFieldName)
		err = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
			return models.PasswordMeetsPolicy(fl.Field().String())
		})
	})
	return err
}

// jsonFieldName makes validation errors report the JSON key.
func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	return name
}

// fieldMessage turns the first failing field of a binding error into a
// human readable sentence.
func fieldMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return detailMalformed
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "password":
		return "Invalid password. It must contain only one uppercase letter and only two numbers, " +
			"in combination with lowercase letters, with a length between 8 and 12 characters."
	case "email":
		return "Enter a valid email address."
	case "required":
		return fmt.Sprintf("%s is required.", fe.Field())
	case "min", "max":
		return fmt.Sprintf("%s must be between 3 and 20 characters.", fe.Field())
	case "numeric":
		return fmt.Sprintf("%s must contain only digits.", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid.", fe.Field())
	}
}

// isValidationError tells a rule violation from a body that is not JSON.
func isValidationError(err error) bool {
	var verrs validator.ValidationErrors
	return errors.As(err, &verrs)
}
