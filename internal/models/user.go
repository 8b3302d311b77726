package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserType string
type AuthProvider string

const (
	UserTypeStudent    UserType = "student"
	UserTypeInstructor UserType = "instructor"
	UserTypeAdmin      UserType = "admin"

	AuthProviderLocal  AuthProvider = "local"
	AuthProviderGoogle AuthProvider = "google"
)

type User struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name         string             `json:"name" bson:"name" validate:"required"`
	Email        string             `json:"email" bson:"email" validate:"required,email"`
	Phone        string             `json:"phone" bson:"phone"`
	UserType     UserType           `json:"user_type" bson:"user_type" default:"student"`
	PasswordHash string             `json:"-" bson:"password_hash"`
	AuthProvider AuthProvider       `json:"auth_provider" bson:"auth_provider" default:"local"`
	ProviderID   string             `json:"-" bson:"provider_id"`
	AvatarURL    string             `json:"avatar_url" bson:"avatar_url"`
	DeviceTokens []DeviceToken      `json:"device_tokens" bson:"device_tokens"`
	IsActive     bool               `json:"is_active" bson:"is_active" default:"true"`
	LastLoginAt  *time.Time         `json:"last_login_at" bson:"last_login_at"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at" bson:"updated_at"`
}

type DeviceToken struct {
	Token    string `json:"token" bson:"token"`
	Platform string `json:"platform" bson:"platform"` // android, ios
}
