package utils

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestTokenPairRoundTrip(t *testing.T) {
	userID := primitive.NewObjectID()
	pair, err := GenerateTokenPair(userID, "instructor", "teach@example.com", "test-secret")
	if err != nil {
		t.Fatalf("GenerateTokenPair: %v", err)
	}
	if pair.TokenType != "Bearer" {
		t.Errorf("token type = %q", pair.TokenType)
	}
	if pair.ExpiresIn != int64(JWTAccessTokenTTL.Seconds()) {
		t.Errorf("expires_in = %d", pair.ExpiresIn)
	}

	for _, token := range []string{pair.AccessToken, pair.RefreshToken} {
		claims, err := ValidateToken(token, "test-secret")
		if err != nil {
			t.Fatalf("ValidateToken: %v", err)
		}
		if claims.UserID != userID {
			t.Errorf("user id = %s, want %s", claims.UserID.Hex(), userID.Hex())
		}
		if claims.UserType != "instructor" {
			t.Errorf("user type = %q", claims.UserType)
		}
		if claims.Subject != userID.Hex() {
			t.Errorf("subject = %q", claims.Subject)
		}
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	pair, err := GenerateTokenPair(primitive.NewObjectID(), "student", "s@example.com", "right-secret")
	if err != nil {
		t.Fatalf("GenerateTokenPair: %v", err)
	}
	if _, err := ValidateToken(pair.AccessToken, "wrong-secret"); err == nil {
		t.Fatal("expected signature validation to fail")
	}
}

func TestValidateTokenGarbage(t *testing.T) {
	if _, err := ValidateToken("not-a-jwt", "secret"); err == nil {
		t.Fatal("expected parse failure")
	}
}
