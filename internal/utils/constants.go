package utils

import "time"

// Application Constants
const (
	AppName    = "LearnHub"
	AppVersion = "1.0.0"

	// Default values
	DefaultLanguage = "en"
	DefaultCurrency = "INR"
	DefaultTimeZone = "Asia/Kolkata"

	// Pagination
	DefaultPageSize = 20
	MaxPageSize     = 100
	MinPageSize     = 1

	// Authentication
	JWTAccessTokenTTL  = 24 * time.Hour
	JWTRefreshTokenTTL = 7 * 24 * time.Hour
	PasswordMinLength  = 8
	PasswordMaxLength  = 128

	// Coupon Constants
	CouponCodeMinLength = 4
	CouponCodeMaxLength = 24
	CouponCacheTTL      = 30 * time.Minute

	// Payout Constants
	DefaultMinPayoutAmount = 1000.0 // INR
	DefaultPerMinuteRate   = 0.50   // INR per paid watch minute
	DefaultTaxPercent      = 18.0   // GST
	DefaultPlatformFeePct  = 20.0

	// Payment Constants
	MinOrderAmount       = 1.0
	MaxOrderAmount       = 500000.0
	RefundProcessingTime = 5 * 24 * time.Hour

	// Platform config cache
	PlatformConfigTTL = 5 * time.Minute

	// Watch time
	MaxProgressTickMinutes = 30 // single progress report cap

	// File Upload
	MaxImageSize    = 5 * 1024 * 1024   // 5MB
	MaxDocumentSize = 10 * 1024 * 1024  // 10MB
	MaxVideoSize    = 500 * 1024 * 1024 // 500MB

	// Rate Limiting
	DefaultRateLimit = 100
	LoginRateLimit   = 5
)

// HTTP Status Messages
const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusFailed  = "failed"
)

// Error Messages
const (
	ErrInvalidCredentials = "invalid credentials"
	ErrUserNotFound       = "user not found"
	ErrUserExists         = "user already exists"
	ErrInvalidToken       = "invalid token"
	ErrTokenExpired       = "token expired"
	ErrInvalidInput       = "invalid input"
	ErrInternalServer     = "internal server error"
	ErrUnauthorized       = "unauthorized"
	ErrForbidden          = "forbidden"
	ErrNotFound           = "not found"
	ErrConflict           = "conflict"
	ErrValidationFailed   = "validation failed"
	ErrFileUploadFailed   = "file upload failed"
	ErrPaymentFailed      = "payment failed"
	ErrCouponNotFound     = "coupon not found"
	ErrCourseNotFound     = "course not found"
)

// Cache Keys
const (
	CacheUserPrefix           = "user:"
	CacheCoursePrefix         = "course:"
	CacheCouponPrefix         = "coupon:"
	CacheCouponCodePrefix     = "coupon_code:"
	CachePlatformConfigKey    = "platform_config"
	CacheRateLimitPrefix      = "rate_limit:"
	CacheSessionPrefix        = "session:"
	CacheSubscriptionPrefix   = "subscription:"
)

// Event Types
const (
	EventUserRegistered    = "user_registered"
	EventUserLogin         = "user_login"
	EventCouponRedeemed    = "coupon_redeemed"
	EventPaymentInitiated  = "payment_initiated"
	EventPaymentCompleted  = "payment_completed"
	EventPaymentFailed     = "payment_failed"
	EventPayoutRequested   = "payout_requested"
	EventPayoutProcessed   = "payout_processed"
)

// Notification Types
const (
	NotificationPush  = "push"
	NotificationSMS   = "sms"
	NotificationEmail = "email"
	NotificationInApp = "in_app"
)

// File Types
var (
	AllowedImageTypes    = []string{"jpg", "jpeg", "png", "gif", "webp"}
	AllowedDocumentTypes = []string{"pdf", "doc", "docx", "txt"}
	AllowedVideoTypes    = []string{"mp4", "mov", "webm", "mkv"}
)
