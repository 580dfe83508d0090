package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"hotelledger/pkg/logger"
	"hotelledger/pkg/model"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
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

// Details flattens the errors into a field -> message map for API responses.
func (v ValidationErrors) Details() map[string]any {
	details := make(map[string]any, len(v))
	for _, err := range v {
		details[err.Field] = err.Message
	}
	return details
}

type LedgerValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewLedgerValidator(log *logger.Logger) *LedgerValidator {
	v := validator.New()

	// Money fields are checked on the decimal itself; a float64 conversion
	// rounds tiny negative amounts to -0.
	if err := v.RegisterValidation(nonNegativeTag, nonNegativeDecimal); err != nil {
		log.Fatal("Failed to register validation", "tag", nonNegativeTag, "error", err)
	}

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})

	log.Debug("Ledger validator initialized")

	return &LedgerValidator{
		validate: v,
		logger:   log,
	}
}

const nonNegativeTag = "nonnegative"

func nonNegativeDecimal(fl validator.FieldLevel) bool {
	d, ok := fl.Field().Interface().(decimal.Decimal)
	return ok && !d.IsNegative()
}

func (v *LedgerValidator) ValidateRoom(room *model.Room) error {
	return v.validateStruct(room)
}

func (v *LedgerValidator) ValidateRoomUpdate(update *model.RoomUpdate) error {
	return v.validateStruct(update)
}

func (v *LedgerValidator) ValidateUser(user *model.User) error {
	return v.validateStruct(user)
}

func (v *LedgerValidator) validateStruct(s any) error {
	if err := v.validate.Struct(s); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *LedgerValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "max":
			message = fmt.Sprintf("%s must be at most %s characters", err.Field(), err.Param())
		case "gt":
			message = fmt.Sprintf("%s must be greater than %s", err.Field(), err.Param())
		case nonNegativeTag:
			message = fmt.Sprintf("%s must not be negative", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
