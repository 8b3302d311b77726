package validators

import (
	"fmt"
	"strings"

	"learnhub/internal/utils"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	validate.RegisterValidation("object_id", validateObjectID)
	validate.RegisterValidation("coupon_code", validateCouponCode)
	validate.RegisterValidation("currency_code", validateCurrencyCode)
	validate.RegisterValidation("money", validateMoney)
}

// ValidationError represents a field validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var messages []string
	for _, err := range v {
		messages = append(messages, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return strings.Join(messages, "; ")
}

func (v ValidationErrors) ToMap() map[string]string {
	out := make(map[string]string, len(v))
	for _, err := range v {
		out[err.Field] = err.Message
	}
	return out
}

// ValidateStruct runs struct-tag validation and returns per-field errors.
func ValidateStruct(s interface{}) ValidationErrors {
	var validationErrors ValidationErrors

	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	for _, fieldErr := range err.(validator.ValidationErrors) {
		validationErrors = append(validationErrors, ValidationError{
			Field:   strings.ToLower(fieldErr.Field()),
			Message: messageForTag(fieldErr),
		})
	}

	return validationErrors
}

func messageForTag(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "must be a valid email address"
	case "object_id":
		return "must be a valid object id"
	case "coupon_code":
		return "must be 4-24 upper-case letters, digits, - or _"
	case "currency_code":
		return "unsupported currency code"
	case "money":
		return "must be a non-negative amount"
	case "min":
		return fmt.Sprintf("must be at least %s", fieldErr.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fieldErr.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fieldErr.Param())
	default:
		return fmt.Sprintf("failed %s validation", fieldErr.Tag())
	}
}

func validateObjectID(fl validator.FieldLevel) bool {
	_, err := primitive.ObjectIDFromHex(fl.Field().String())
	return err == nil
}

func validateCouponCode(fl validator.FieldLevel) bool {
	return utils.IsValidCouponCode(fl.Field().String())
}

func validateCurrencyCode(fl validator.FieldLevel) bool {
	return utils.IsSupportedCurrency(fl.Field().String())
}

func validateMoney(fl validator.FieldLevel) bool {
	return fl.Field().Float() >= 0
}
