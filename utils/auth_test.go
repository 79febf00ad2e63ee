package utils

import "testing"

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret-password")
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	if hash == "s3cret-password" {
		t.Error("Hash should not equal the plaintext password")
	}
	if !CheckPasswordHash("s3cret-password", hash) {
		t.Error("Correct password should verify")
	}
	if CheckPasswordHash("wrong-password", hash) {
		t.Error("Wrong password should not verify")
	}
}

func TestJWTRoundTrip(t *testing.T) {
	ConfigureJWT("test-secret", 1)

	token, err := GenerateJWTToken("user123", "ana@example.com", "teacher")
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	claims, err := ParseJWTToken(token)
	if err != nil {
		t.Fatalf("Failed to parse token: %v", err)
	}
	if claims.UserID != "user123" {
		t.Errorf("Expected user id user123, got %s", claims.UserID)
	}
	if claims.Email != "ana@example.com" {
		t.Errorf("Expected email ana@example.com, got %s", claims.Email)
	}
	if claims.Role != "teacher" {
		t.Errorf("Expected role teacher, got %s", claims.Role)
	}
}

func TestTamperedTokenRejected(t *testing.T) {
	ConfigureJWT("test-secret", 1)

	token, err := GenerateJWTToken("user123", "ana@example.com", "student")
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	if _, err := ParseJWTToken(token + "x"); err == nil {
		t.Error("Expected an error for a tampered token")
	}
	if _, err := ParseJWTToken("not-a-token"); err == nil {
		t.Error("Expected an error for garbage input")
	}
}
