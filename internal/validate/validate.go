// Package validate performs declarative shape-checking of form input before
// any I/O happens. Rules live as struct tags on the input types; failures
// come back as a per-field message map so handlers can re-render forms with
// inline errors instead of aborting the request.
package validate

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldErrors maps an input field name to the validation messages raised
// against it. An empty map means the input passed.
type FieldErrors map[string][]string

// CustomerInput carries the raw form fields of a customer create/update.
// Image is optional; when the form included a file upload the handler maps
// its filename to a stored path before persisting.
type CustomerInput struct {
	Name  string `form:"name" json:"name" validate:"required"`
	Email string `form:"email" json:"email" validate:"required,email"`
	Image string `form:"image" json:"image"`
}

// BillingInput carries the raw form fields of a reservation or invoice
// mutation. Amount stays a string here: coercion to cents happens in the
// handler only after the value is known to be numeric.
type BillingInput struct {
	CustomerID string `form:"customerId" json:"customerId" validate:"required"`
	Amount     string `form:"amount" json:"amount" validate:"required,numeric"`
	Status     string `form:"status" json:"status" validate:"required,oneof=pending paid"`
}

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())
	// Report errors under the form field name, not the Go field name.
	val.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return val
}

// Struct validates any tagged input struct and returns structured field
// errors. It never panics or aborts: an unexpected validator failure is
// reported as a whole-input error so the caller still gets a 4xx payload.
func Struct(in any) FieldErrors {
	errs := FieldErrors{}
	err := v.Struct(in)
	if err == nil {
		return errs
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		errs["input"] = append(errs["input"], "invalid input")
		return errs
	}
	for _, fe := range verrs {
		errs[fe.Field()] = append(errs[fe.Field()], message(fe))
	}
	return errs
}

// message converts a single validator error into the user-facing string
// shown next to the form field.
func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Please enter a valid email address."
	case "numeric":
		return "Please enter a valid amount."
	case "oneof":
		return "Please choose one of: " + strings.Join(strings.Fields(fe.Param()), ", ") + "."
	default:
		return "Invalid value."
	}
}
