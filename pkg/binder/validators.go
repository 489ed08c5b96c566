package binder

import (
	"context"
	"html"
	"reflect"
	"regexp"
	"time"

	"github.com/go-playground/mold/v4"
	"github.com/go-playground/validator/v10"
)

var (
	dateRE = regexp.MustCompile(`^\d{4}-(0[0-9]|1[0-2])-(0[0-9]|1[0-9]|2[0-9]|3[0-1])$`)
)

// dateValidator ensures the value is a real YYYY-MM-DD date or the empty
// string. The regex pins the shape; time.Parse then rejects impossible
// calendar dates like February 31st. The reason the empty string is allowed is
// that this validator can be used to clear out values. However, this is only
// useful in that case, so if you're using this validator but want the value to
// be required, add a `ne=` to the validate tag so that the empty string is
// disallowed.
func dateValidator(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	if !dateRE.MatchString(value) {
		return false
	}
	_, err := time.Parse("2006-01-02", value)
	return err == nil
}

// dateAfterValidator ensures the value is on or after the date held by the
// sibling field named in the tag param. Both sides are YYYY-MM-DD strings, so
// a lexical comparison is a chronological one. Either side being empty (or
// not yet a valid date) passes; the `date` validator owns format errors.
func dateAfterValidator(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" || !dateRE.MatchString(value) {
		return true
	}
	other, kind, ok := fl.GetStructFieldOK()
	if !ok || kind != reflect.String {
		return true
	}
	otherValue := other.String()
	if otherValue == "" || !dateRE.MatchString(otherValue) {
		return true
	}
	return value >= otherValue
}

// escapeModifier HTML-escapes string fields so user input is neutralized
// before it is persisted or echoed back into a form.
func escapeModifier(_ context.Context, fl mold.FieldLevel) error {
	if fl.Field().Kind() == reflect.String {
		fl.Field().SetString(html.EscapeString(fl.Field().String()))
	}
	return nil
}
