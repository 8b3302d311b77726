package services

import (
	"context"
	"fmt"
	"strings"

	"learnhub/internal/models"
	"learnhub/internal/repositories/interfaces"
	"learnhub/internal/utils"
	"learnhub/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Machine-readable rejection reasons carried in validation results.
const (
	ReasonNotFound         = "NOT_FOUND"
	ReasonInactive         = "INACTIVE"
	ReasonExpired          = "EXPIRED"
	ReasonUsageExceeded    = "USAGE_EXCEEDED"
	ReasonBelowMinimum     = "BELOW_MINIMUM"
	ReasonAlreadyUsed      = "ALREADY_USED"
	ReasonCategoryMismatch = "CATEGORY_MISMATCH"
)

// ValidationResult is returned for every coupon check. Business rejections
// come back as IsValid=false with a reason, never as an error; errors are
// reserved for infrastructure failures.
type ValidationResult struct {
	IsValid        bool           `json:"is_valid"`
	Reason         string         `json:"reason,omitempty"`
	Message        string         `json:"message"`
	Coupon         *models.Coupon `json:"coupon,omitempty"`
	DiscountAmount float64        `json:"discount_amount"`
	FinalAmount    float64        `json:"final_amount"`
}

type CreateCouponRequest struct {
	Code        string            `json:"code"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Type        models.CouponType `json:"type"`
	Value       float64           `json:"value"`
	MaxUses     int               `json:"max_uses"`
	MinAmount   float64           `json:"min_amount"`
	MaxDiscount float64           `json:"max_discount"`
	Categories  []string          `json:"categories"`
	ValidFrom   string            `json:"valid_from"`
	ValidUntil  string            `json:"valid_until"`
}

type CouponService interface {
	// Preview path: side-effect free.
	ValidateCoupon(ctx context.Context, code string, userID primitive.ObjectID, orderAmount float64, categories []string) (*ValidationResult, error)

	// Confirm path: records usage and bumps the counter atomically.
	RedeemCoupon(ctx context.Context, code string, userID primitive.ObjectID, orderAmount float64, categories []string, orderContext models.OrderContext, orderRefID primitive.ObjectID) (*ValidationResult, error)

	// ReverseRedemption releases a user's claim, e.g. after a refund.
	ReverseRedemption(ctx context.Context, couponID, userID primitive.ObjectID) error

	AvailableCoupons(ctx context.Context, userID primitive.ObjectID, category string) ([]*models.Coupon, error)

	// Admin
	CreateCoupon(ctx context.Context, coupon *models.Coupon) error
	UpdateCoupon(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
	DeactivateCoupon(ctx context.Context, id primitive.ObjectID) error
	GetCoupon(ctx context.Context, id primitive.ObjectID) (*models.Coupon, error)
	ListCoupons(ctx context.Context, params *utils.PaginationParams) ([]*models.Coupon, int64, error)
	CouponStats(ctx context.Context, id primitive.ObjectID) (map[string]interface{}, error)
}

type couponService struct {
	couponRepo interfaces.CouponRepository
	usageRepo  interfaces.CouponUsageRepository
	clock      Clock
	logger     *logger.Logger
}

func NewCouponService(
	couponRepo interfaces.CouponRepository,
	usageRepo interfaces.CouponUsageRepository,
	clock Clock,
	logger *logger.Logger,
) CouponService {
	return &couponService{
		couponRepo: couponRepo,
		usageRepo:  usageRepo,
		clock:      clock,
		logger:     logger,
	}
}

// ValidateCoupon runs the rejection checks in a fixed order and stops at the
// first failure, so a caller always sees the most fundamental problem first.
func (s *couponService) ValidateCoupon(ctx context.Context, code string, userID primitive.ObjectID, orderAmount float64, categories []string) (*ValidationResult, error) {
	coupon, err := s.couponRepo.GetByCode(ctx, code)
	if err != nil {
		if err == ErrCouponNotFound {
			return reject(ReasonNotFound, "Invalid coupon code"), nil
		}
		return nil, err
	}

	if !coupon.IsActive {
		return reject(ReasonInactive, "This coupon is no longer active"), nil
	}

	now := s.clock.Now()
	if now.Before(coupon.ValidFrom) || now.After(coupon.ValidUntil) {
		return reject(ReasonExpired, "This coupon has expired"), nil
	}

	if !coupon.HasCapacity() {
		return reject(ReasonUsageExceeded, "This coupon has reached its usage limit"), nil
	}

	if orderAmount < coupon.MinAmount {
		return reject(ReasonBelowMinimum, fmt.Sprintf("Minimum order amount is %s", utils.FormatCurrency(coupon.MinAmount, utils.DefaultCurrency))), nil
	}

	used, err := s.usageRepo.HasUsed(ctx, coupon.ID, userID)
	if err != nil {
		return nil, err
	}
	if used {
		return reject(ReasonAlreadyUsed, "You have already used this coupon"), nil
	}

	if !categoryApplies(coupon.Categories, categories) {
		return reject(ReasonCategoryMismatch, "This coupon does not apply to these items"), nil
	}

	discount, final := s.computeDiscount(coupon, orderAmount)

	return &ValidationResult{
		IsValid:        true,
		Message:        "Coupon applied",
		Coupon:         coupon,
		DiscountAmount: discount,
		FinalAmount:    final,
	}, nil
}

// RedeemCoupon revalidates and then claims the coupon: the claim record
// insert is guarded by a unique (coupon, user) index and the counter bump
// only matches coupons still under their cap. Losing either race undoes
// the other step, so two concurrent redemptions cannot both win.
func (s *couponService) RedeemCoupon(ctx context.Context, code string, userID primitive.ObjectID, orderAmount float64, categories []string, orderContext models.OrderContext, orderRefID primitive.ObjectID) (*ValidationResult, error) {
	result, err := s.ValidateCoupon(ctx, code, userID, orderAmount, categories)
	if err != nil {
		return nil, err
	}
	if !result.IsValid {
		return result, nil
	}

	usage := &models.CouponUsage{
		CouponID:       result.Coupon.ID,
		UserID:         userID,
		OrderContext:   orderContext,
		OrderRefID:     orderRefID,
		OrderAmount:    utils.RoundMoney(orderAmount),
		DiscountAmount: result.DiscountAmount,
		FinalAmount:    result.FinalAmount,
	}

	if err := s.usageRepo.Create(ctx, usage); err != nil {
		if err == ErrAlreadyUsed {
			return reject(ReasonAlreadyUsed, "You have already used this coupon"), nil
		}
		return nil, err
	}

	incremented, err := s.couponRepo.IncrementUsage(ctx, result.Coupon.ID)
	if err != nil {
		return nil, err
	}
	if !incremented {
		if delErr := s.usageRepo.Delete(ctx, usage.ID); delErr != nil {
			s.logger.WithError(delErr).WithCouponCode(code).Error("Failed to roll back coupon claim")
		}
		return reject(ReasonUsageExceeded, "This coupon has reached its usage limit"), nil
	}

	s.logger.WithCouponCode(result.Coupon.Code).
		WithUserID(userID).
		WithField("discount", result.DiscountAmount).
		Info("Coupon redeemed")

	return result, nil
}

// ReverseRedemption undoes a confirmed redemption: the claim record goes
// away and the usage counter drops, so the user can apply the coupon again.
// A missing claim is a no-op.
func (s *couponService) ReverseRedemption(ctx context.Context, couponID, userID primitive.ObjectID) error {
	deleted, err := s.usageRepo.DeleteByCouponAndUser(ctx, couponID, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return nil
	}

	if err := s.couponRepo.DecrementUsage(ctx, couponID); err != nil {
		return err
	}

	s.logger.WithUserID(userID).
		WithField("coupon_id", couponID.Hex()).
		Info("Coupon redemption reversed")

	return nil
}

func (s *couponService) AvailableCoupons(ctx context.Context, userID primitive.ObjectID, category string) ([]*models.Coupon, error) {
	coupons, err := s.couponRepo.GetAvailable(ctx, s.clock.Now(), category)
	if err != nil {
		return nil, err
	}

	available := make([]*models.Coupon, 0, len(coupons))
	for _, coupon := range coupons {
		used, err := s.usageRepo.HasUsed(ctx, coupon.ID, userID)
		if err != nil {
			return nil, err
		}
		if !used {
			available = append(available, coupon)
		}
	}

	return available, nil
}

func (s *couponService) CreateCoupon(ctx context.Context, coupon *models.Coupon) error {
	coupon.Code = strings.ToUpper(strings.TrimSpace(coupon.Code))
	if !utils.IsValidCouponCode(coupon.Code) {
		return fmt.Errorf("invalid coupon code format")
	}

	coupon.Categories = utils.NormalizeCategories(coupon.Categories)

	if coupon.Type == models.CouponTypePercentage && (coupon.Value <= 0 || coupon.Value > 100) {
		return fmt.Errorf("percentage value must be between 0 and 100")
	}
	if coupon.Type == models.CouponTypeFixed && coupon.Value <= 0 {
		return fmt.Errorf("fixed discount must be positive")
	}
	if !coupon.ValidUntil.After(coupon.ValidFrom) {
		return fmt.Errorf("valid_until must be after valid_from")
	}

	if err := s.couponRepo.Create(ctx, coupon); err != nil {
		return err
	}

	s.logger.WithCouponCode(coupon.Code).Info("Coupon created")
	return nil
}

func (s *couponService) UpdateCoupon(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	if categories, exists := updates["categories"]; exists {
		if list, ok := categories.([]string); ok {
			updates["categories"] = utils.NormalizeCategories(list)
		}
	}
	return s.couponRepo.Update(ctx, id, updates)
}

// DeactivateCoupon disables a coupon without deleting it; usage history
// keeps referencing it.
func (s *couponService) DeactivateCoupon(ctx context.Context, id primitive.ObjectID) error {
	return s.couponRepo.SetActive(ctx, id, false)
}

func (s *couponService) GetCoupon(ctx context.Context, id primitive.ObjectID) (*models.Coupon, error) {
	return s.couponRepo.GetByID(ctx, id)
}

func (s *couponService) ListCoupons(ctx context.Context, params *utils.PaginationParams) ([]*models.Coupon, int64, error) {
	return s.couponRepo.List(ctx, params)
}

func (s *couponService) CouponStats(ctx context.Context, id primitive.ObjectID) (map[string]interface{}, error) {
	coupon, err := s.couponRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	redemptions, err := s.usageRepo.CountByCoupon(ctx, id)
	if err != nil {
		return nil, err
	}

	totalDiscount, err := s.usageRepo.TotalDiscountByCoupon(ctx, id)
	if err != nil {
		return nil, err
	}

	usageRate := float64(0)
	if coupon.MaxUses > 0 {
		usageRate = float64(coupon.UsedCount) / float64(coupon.MaxUses) * 100
	}

	return map[string]interface{}{
		"coupon_id":      coupon.ID,
		"code":           coupon.Code,
		"used_count":     coupon.UsedCount,
		"max_uses":       coupon.MaxUses,
		"usage_rate":     usageRate,
		"redemptions":    redemptions,
		"total_discount": utils.RoundMoney(totalDiscount),
		"is_active":      coupon.IsActive,
	}, nil
}

// computeDiscount applies the coupon type to the order amount. The final
// amount never drops below zero.
func (s *couponService) computeDiscount(coupon *models.Coupon, orderAmount float64) (discount, final float64) {
	switch coupon.Type {
	case models.CouponTypeFree:
		discount = orderAmount
	case models.CouponTypePercentage:
		discount = orderAmount * coupon.Value / 100
		if coupon.MaxDiscount > 0 && discount > coupon.MaxDiscount {
			discount = coupon.MaxDiscount
		}
	case models.CouponTypeFixed:
		discount = coupon.Value
		if discount > orderAmount {
			discount = orderAmount
		}
	}

	discount = utils.RoundMoney(discount)
	final = utils.RoundMoney(orderAmount - discount)
	if final < 0 {
		final = 0
	}

	return discount, final
}

// categoryApplies checks the coupon allow-list against the order's
// categories. An empty allow-list matches everything, an order with no
// categories is unrestricted, and an order category of "all" bypasses
// the list.
func categoryApplies(couponCategories, orderCategories []string) bool {
	if len(couponCategories) == 0 {
		return true
	}

	order := utils.NormalizeCategories(orderCategories)
	if len(order) == 0 {
		return true
	}
	for _, c := range order {
		if c == models.CategoryAll {
			return true
		}
	}

	allowed := utils.NormalizeCategories(couponCategories)
	for _, a := range allowed {
		if a == models.CategoryAll {
			return true
		}
		for _, c := range order {
			if a == c {
				return true
			}
		}
	}

	return false
}

func reject(reason, message string) *ValidationResult {
	return &ValidationResult{
		IsValid: false,
		Reason:  reason,
		Message: message,
	}
}
