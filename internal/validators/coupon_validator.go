package validators

import (
	"time"

	"learnhub/internal/models"
)

type CouponCreateRequest struct {
	Code        string   `json:"code" validate:"required,coupon_code"`
	Title       string   `json:"title" validate:"required,max=120"`
	Description string   `json:"description" validate:"max=500"`
	Type        string   `json:"type" validate:"required,oneof=free percentage fixed"`
	Value       float64  `json:"value" validate:"money"`
	MaxUses     int      `json:"max_uses"`
	MinAmount   float64  `json:"min_amount" validate:"money"`
	MaxDiscount float64  `json:"max_discount" validate:"money"`
	Categories  []string `json:"categories"`
	ValidFrom   string   `json:"valid_from" validate:"required"`
	ValidUntil  string   `json:"valid_until" validate:"required"`
}

type CouponPreviewRequest struct {
	Code        string   `json:"code" validate:"required"`
	OrderAmount float64  `json:"order_amount" validate:"required,money"`
	Categories  []string `json:"categories"`
}

type CouponConfirmRequest struct {
	Code         string   `json:"code" validate:"required"`
	OrderAmount  float64  `json:"order_amount" validate:"required,money"`
	Categories   []string `json:"categories"`
	OrderContext string   `json:"order_context" validate:"required,oneof=subscription course"`
	OrderRefID   string   `json:"order_ref_id" validate:"required,object_id"`
}

// ValidateCouponCreate checks the request and returns parsed validity
// dates alongside any field errors.
func ValidateCouponCreate(req *CouponCreateRequest) (validFrom, validUntil time.Time, errs ValidationErrors) {
	errs = ValidateStruct(req)

	var err error
	validFrom, err = time.Parse(time.RFC3339, req.ValidFrom)
	if err != nil {
		errs = append(errs, ValidationError{Field: "valid_from", Message: "must be an RFC3339 timestamp"})
	}
	validUntil, err = time.Parse(time.RFC3339, req.ValidUntil)
	if err != nil {
		errs = append(errs, ValidationError{Field: "valid_until", Message: "must be an RFC3339 timestamp"})
	}
	if err == nil && !validUntil.After(validFrom) {
		errs = append(errs, ValidationError{Field: "valid_until", Message: "must be after valid_from"})
	}

	if models.CouponType(req.Type) == models.CouponTypePercentage && (req.Value <= 0 || req.Value > 100) {
		errs = append(errs, ValidationError{Field: "value", Message: "percentage must be between 0 and 100"})
	}
	if models.CouponType(req.Type) == models.CouponTypeFixed && req.Value <= 0 {
		errs = append(errs, ValidationError{Field: "value", Message: "fixed discount must be positive"})
	}

	return validFrom, validUntil, errs
}
