package types

import (
	"regexp"

	"github.com/go-playground/validator/v10"

	apierrors "github.com/aminat2005/viva-sync/internal/errors"
)

var validate = newValidator()

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Local calendar dates travel as plain YYYY-MM-DD strings.
	_ = v.RegisterValidation("datelike", func(fl validator.FieldLevel) bool {
		return dateRe.MatchString(fl.Field().String())
	})
	return v
}

// ValidateStruct checks req against its validate tags and converts any
// failure into a classified validation error, so callers see the same
// error shape for local and server-side rejections.
func ValidateStruct(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	e := apierrors.New(apierrors.KindValidation, "Some of the submitted values were rejected. Please review and try again.")
	e.Underlying = err
	if verrs, ok := err.(validator.ValidationErrors); ok {
		e.Fields = make(map[string][]string, len(verrs))
		for _, fe := range verrs {
			e.Fields[fe.Field()] = append(e.Fields[fe.Field()], "failed "+fe.Tag()+" validation")
		}
	}
	return e
}

// ValidateIDPresent rejects empty identifiers before a request is built.
func ValidateIDPresent(id, name string) error {
	if id == "" {
		e := apierrors.New(apierrors.KindValidation, "A required identifier was missing.")
		e.Fields = map[string][]string{name: {"must not be empty"}}
		return e
	}
	return nil
}

// ValidateDate rejects strings that are not local YYYY-MM-DD dates.
func ValidateDate(date string) error {
	if !dateRe.MatchString(date) {
		e := apierrors.New(apierrors.KindValidation, "Dates must be in YYYY-MM-DD form.")
		e.Fields = map[string][]string{"date": {"must match YYYY-MM-DD"}}
		return e
	}
	return nil
}
