package validator

import (
	"errors"
	"fmt"
	"strings"
	"time"

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

type BookingValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
	now      func() time.Time
}

func NewBookingValidator(log *logger.Logger) *BookingValidator {
	return &BookingValidator{
		validate: validator.New(),
		logger:   log,
		now:      time.Now,
	}
}

// Validate checks a fully populated booking. The stay is the half-open
// interval [StartDate, EndDate), so EndDate must be strictly after
// StartDate.
func (v *BookingValidator) Validate(booking *model.Booking) error {
	if err := v.validate.Struct(booking); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	if !booking.EndDate.After(booking.StartDate) {
		return ValidationErrors{
			ValidationError{
				Field:   "EndDate",
				Message: "endDate must be after startDate",
			},
		}
	}

	return nil
}

// ValidateNewStay additionally rejects stays that begin in the past. Only
// new or re-dated bookings go through this check so that old records stay
// readable and cancellable.
func (v *BookingValidator) ValidateNewStay(booking *model.Booking) error {
	if err := v.Validate(booking); err != nil {
		return err
	}

	if booking.StartDate.Before(startOfDay(v.now())) {
		return ValidationErrors{
			ValidationError{
				Field:   "StartDate",
				Message: "startDate cannot be in the past",
			},
		}
	}

	return nil
}

func (v *BookingValidator) ValidateUpdate(update *model.BookingUpdate) error {
	if err := v.validate.Struct(update); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	if update.StartDate != nil && update.EndDate != nil {
		if !update.EndDate.After(*update.StartDate) {
			return ValidationErrors{
				ValidationError{
					Field:   "EndDate",
					Message: "endDate must be after startDate",
				},
			}
		}
	}

	return nil
}

// startOfDay truncates to midnight UTC so a booking starting "today" is
// still accepted.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (v *BookingValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
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
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "gt":
			message = fmt.Sprintf("%s must be greater than %s", err.Field(), err.Param())
		case "gtfield":
			message = fmt.Sprintf("%s must be greater than %s", err.Field(), err.Param())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
