package validator

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Errors maps a request field (its json name) to one or more messages.
type Errors map[string][]string

// Add appends a message for field.
func (e Errors) Add(field, message string) {
	e[field] = append(e[field], message)
}

// Merge copies every message of other into e.
func (e Errors) Merge(other Errors) {
	for field, msgs := range other {
		e[field] = append(e[field], msgs...)
	}
}

// Fields returns the failing field names in a stable order.
func (e Errors) Fields() []string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

var validate = validator.New()

func init() {
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	// notblank rejects strings that are empty after trimming, like a form "required" rule.
	validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		if s, ok := fl.Field().Interface().(string); ok {
			return strings.TrimSpace(s) != ""
		}
		return false
	})
}

// ValidateStruct runs the struct's validate tags and returns nil when everything passes.
func ValidateStruct(data interface{}) Errors {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return Errors{"_": {err.Error()}}
	}

	errs := Errors{}
	for _, fe := range verrs {
		errs.Add(fe.Field(), message(fe))
	}
	return errs
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	numeric := isNumeric(fe.Kind())

	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("%s wajib diisi.", field)
	case "email":
		return fmt.Sprintf("%s harus berupa alamat email yang valid.", field)
	case "url":
		return fmt.Sprintf("%s harus berupa URL yang valid.", field)
	case "oneof":
		return fmt.Sprintf("%s harus salah satu dari: %s.", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "min":
		if numeric {
			return fmt.Sprintf("%s minimal %s.", field, fe.Param())
		}
		return fmt.Sprintf("%s minimal %s karakter.", field, fe.Param())
	case "max":
		if numeric {
			return fmt.Sprintf("%s maksimal %s.", field, fe.Param())
		}
		return fmt.Sprintf("%s maksimal %s karakter.", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s tidak boleh kurang dari %s.", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s harus lebih besar dari %s.", field, fe.Param())
	case "eqfield":
		return fmt.Sprintf("%s tidak cocok.", field)
	default:
		return fmt.Sprintf("%s tidak valid.", field)
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
