// Package validation checks the checkout address forms and reports every
// failing field at once.
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/checkout-service/models"
)

// Errors maps a form field (billing fields prefixed "billing.") to a message.
// An empty map means the form is valid.
type Errors map[string]string

// BillingPrefix is prepended to billing field keys.
const BillingPrefix = "billing."

var (
	emailPattern   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern   = regexp.MustCompile(`^[0-9]{10}$`)
	pincodePattern = regexp.MustCompile(`^[0-9]{6}$`)
)

var messages = map[string]string{
	"firstName": "First name is required",
	"lastName":  "Last name is required",
	"email":     "Valid email is required",
	"phone":     "Valid 10-digit phone number is required",
	"address":   "Address is required",
	"city":      "City is required",
	"state":     "State is required",
	"pincode":   "Valid 6-digit pincode is required",
}

type shippingForm struct {
	FirstName string `json:"firstName" validate:"notblank"`
	LastName  string `json:"lastName" validate:"notblank"`
	Email     string `json:"email" validate:"storeemail"`
	Phone     string `json:"phone" validate:"phone"`
	Address   string `json:"address" validate:"notblank"`
	City      string `json:"city" validate:"notblank"`
	State     string `json:"state" validate:"notblank"`
	Pincode   string `json:"pincode" validate:"pincode"`
}

type billingForm struct {
	FirstName string `json:"firstName" validate:"notblank"`
	LastName  string `json:"lastName" validate:"notblank"`
	Address   string `json:"address" validate:"notblank"`
	City      string `json:"city" validate:"notblank"`
	State     string `json:"state" validate:"notblank"`
	Pincode   string `json:"pincode" validate:"pincode"`
}

// Validator wraps a configured go-playground validator. It is safe for
// concurrent use.
type Validator struct {
	validate *validator.Validate
}

// New registers the checkout tags and reports fields by their json names.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	_ = v.RegisterValidation("storeemail", matches(emailPattern))
	_ = v.RegisterValidation("phone", matches(phonePattern))
	_ = v.RegisterValidation("pincode", matches(pincodePattern))
	return &Validator{validate: v}
}

func matches(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

// Validate checks the shipping form and, unless sameAsShipping, the billing form.
func (v *Validator) Validate(shipping, billing models.Address, sameAsShipping bool) Errors {
	errs := Errors{}
	v.collect(errs, "", shippingForm{
		FirstName: shipping.FirstName,
		LastName:  shipping.LastName,
		Email:     shipping.Email,
		Phone:     shipping.Phone,
		Address:   shipping.Address,
		City:      shipping.City,
		State:     shipping.State,
		Pincode:   shipping.Pincode,
	})
	if !sameAsShipping {
		v.collect(errs, BillingPrefix, billingForm{
			FirstName: billing.FirstName,
			LastName:  billing.LastName,
			Address:   billing.Address,
			City:      billing.City,
			State:     billing.State,
			Pincode:   billing.Pincode,
		})
	}
	return errs
}

func (v *Validator) collect(errs Errors, prefix string, form any) {
	err := v.validate.Struct(form)
	if err == nil {
		return
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errs[prefix+"form"] = err.Error()
		return
	}
	for _, fe := range verrs {
		field := fe.Field()
		msg, ok := messages[field]
		if !ok {
			msg = field + " is invalid"
		}
		errs[prefix+field] = msg
	}
}

var defaultValidator = New()

// Validate uses a shared Validator.
func Validate(shipping, billing models.Address, sameAsShipping bool) Errors {
	return defaultValidator.Validate(shipping, billing, sameAsShipping)
}
