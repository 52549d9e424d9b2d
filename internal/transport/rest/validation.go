package rest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report violations under the wire name, not the Go field name
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}

// firstViolation turns a validator error into the single field/message pair
// the API reports. Only the first violated field is surfaced.
func firstViolation(err error) *ValidationError {
	errs, ok := err.(validator.ValidationErrors)
	if !ok || len(errs) == 0 {
		return &ValidationError{Message: "invalid request body"}
	}

	fe := errs[0]

	var msg string
	switch fe.Tag() {
	case "required":
		msg = "is required"
	case "min":
		msg = fmt.Sprintf("must be at least %s characters long", fe.Param())
	case "max":
		msg = fmt.Sprintf("must be at most %s characters long", fe.Param())
	case "gt":
		msg = fmt.Sprintf("must be greater than %s", fe.Param())
	case "lt":
		msg = fmt.Sprintf("must be less than %s", fe.Param())
	case "email":
		msg = "must be a valid email address"
	default:
		msg = fmt.Sprintf("failed the '%s' constraint", fe.Tag())
	}

	return &ValidationError{Field: fe.Field(), Message: msg}
}

// Date is a date-only JSON value ("2006-01-02").
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == "" {
		d.Time = time.Time{}
		return nil
	}

	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return fmt.Errorf("must be a YYYY-MM-DD date: %w", err)
	}

	d.Time = parsed
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format("2006-01-02"))
}

// ProductPayload mirrors the catalog wire format. The generated id is never
// part of request or response bodies.
type ProductPayload struct {
	NameAndVersion       string  `json:"name_and_version" validate:"required,min=3,max=50"`
	ProductCode          string  `json:"product_code" validate:"required,min=3,max=50"`
	MinLoadTerm          int     `json:"min_load_term" validate:"required,gt=0,lt=121"`
	MaxLoadTerm          int     `json:"max_load_term" validate:"required,gt=0,lt=121"`
	MinPrincipalAmount   int     `json:"min_principal_amount" validate:"required,gt=0"`
	MaxPrincipalAmount   int     `json:"max_principal_amount" validate:"required,gt=0"`
	MinInterest          float64 `json:"min_interest" validate:"required,gt=0,lt=100"`
	MaxInterest          float64 `json:"max_interest" validate:"required,gt=0,lt=100"`
	MinOriginationAmount int     `json:"min_origination_amount" validate:"required,gt=0"`
	MaxOriginationAmount int     `json:"max_origination_amount" validate:"required,gt=0"`
}

// SiteForm is the loan application as submitted by the web form. Field names
// follow the established wire format, including the historical
// "disbursment_amount" spelling.
type SiteForm struct {
	ProductCode       string  `json:"product_code" validate:"required,min=3,max=50"`
	FirstName         string  `json:"first_name" validate:"required,min=2,max=50"`
	SecondName        string  `json:"second_name" validate:"required,min=2,max=50"`
	ThirdName         *string `json:"third_name" validate:"omitempty,min=2,max=50"`
	Birthday          Date    `json:"birthday"`
	PassportNumber    string  `json:"passport_number" validate:"required,min=10,max=50"`
	Email             string  `json:"email" validate:"required,email,max=50"`
	Phone             string  `json:"phone" validate:"required,min=5,max=50"`
	Salary            int     `json:"salary" validate:"required,gt=0"`
	Term              int     `json:"term" validate:"required,gt=0,lt=121"`
	Interest          float64 `json:"interest" validate:"required,gt=0,lt=100"`
	DisbursmentAmount int     `json:"disbursment_amount" validate:"required,gt=0"`
}

var (
	birthdayMin = time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)
	birthdayMax = time.Date(2006, 1, 1, 0, 0, 0, 0, time.UTC)
)

// ValidateSiteForm decodes and validates the application payload, returning
// the first violation as a *ValidationError.
func ValidateSiteForm(r *http.Request) (*SiteForm, error) {
	var form SiteForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		return nil, &ValidationError{Message: "invalid JSON body"}
	}

	if err := validate.Struct(form); err != nil {
		return nil, firstViolation(err)
	}

	b := form.Birthday.Time
	if b.IsZero() {
		return nil, &ValidationError{Field: "birthday", Message: "is required"}
	}
	if !b.After(birthdayMin) || !b.Before(birthdayMax) {
		return nil, &ValidationError{Field: "birthday", Message: "must be between 1900-01-01 and 2006-01-01"}
	}

	return &form, nil
}

// ValidateProductPayload decodes and validates a catalog create request.
// Cross-bound rules (max >= min) are the catalog service's concern.
func ValidateProductPayload(r *http.Request) (*ProductPayload, error) {
	var payload ProductPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		return nil, &ValidationError{Message: "invalid JSON body"}
	}

	if err := validate.Struct(payload); err != nil {
		return nil, firstViolation(err)
	}

	return &payload, nil
}
