package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"bayview/pkg/logger"
	"bayview/pkg/model"
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

type PrepaymentValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewPrepaymentValidator(log *logger.Logger) *PrepaymentValidator {
	log.Info("Prepayment validator initialized successfully")

	return &PrepaymentValidator{
		validate: validator.New(),
		logger:   log,
	}
}

func (v *PrepaymentValidator) Validate(credit *model.PrepaymentCredit) error {
	if err := v.validate.Struct(credit); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	if credit.PlacementsUsed > credit.Capacity {
		return ValidationErrors{
			ValidationError{
				Field:   "PlacementsUsed",
				Message: "placements_used cannot exceed capacity",
			},
		}
	}

	if credit.PurchaserPhone == "" && credit.PurchaserEmail == "" {
		return ValidationErrors{
			ValidationError{
				Field:   "PurchaserPhone",
				Message: "at least one of purchaser_phone or purchaser_email is required",
			},
		}
	}

	return nil
}

func (v *PrepaymentValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
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
		case "email":
			message = fmt.Sprintf("%s must be a valid email address", err.Field())
		case "e164":
			message = fmt.Sprintf("%s must be in E.164 format (e.g., +12315551234)", err.Field())
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
