package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/maro14/fauxdoorz/pkg/logger"
	"github.com/maro14/fauxdoorz/pkg/model"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type PropertyValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewPropertyValidator(log *logger.Logger) *PropertyValidator {
	return &PropertyValidator{
		validate: validator.New(),
		logger:   log,
	}
}

func (v *PropertyValidator) Validate(property *model.Property) error {
	return v.translate(v.validate.Struct(property))
}

func (v *PropertyValidator) ValidateUpdate(update *model.PropertyUpdate) error {
	return v.translate(v.validate.Struct(update))
}

func (v *PropertyValidator) ValidateSearch(search *model.PropertySearch) error {
	var errs ValidationErrors

	if search.MinPrice < 0 {
		errs = append(errs, ValidationError{Field: "minPrice", Message: "minPrice must not be negative"})
	}
	if search.MaxPrice < 0 {
		errs = append(errs, ValidationError{Field: "maxPrice", Message: "maxPrice must not be negative"})
	}
	if search.MinPrice > 0 && search.MaxPrice > 0 && search.MinPrice > search.MaxPrice {
		errs = append(errs, ValidationError{Field: "minPrice", Message: "minPrice must not exceed maxPrice"})
	}
	if search.Guests < 0 {
		errs = append(errs, ValidationError{Field: "guests", Message: "guests must not be negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (v *PropertyValidator) translate(err error) error {
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return translateValidationErrors(validationErrs)
	}
	return err
}

func translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "gt":
			message = fmt.Sprintf("%s must be greater than %s", err.Field(), err.Param())
		case "url":
			message = fmt.Sprintf("%s must be a valid URL", err.Field())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
