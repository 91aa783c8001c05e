package models

import (
	"strings"
	"testing"
)

func TestFullName(t *testing.T) {
	u := User{FirstName: "Jane", LastName: "Doe"}
	if got := u.FullName(); got != "Jane Doe" {
		t.Errorf("FullName() = %q, want %q", got, "Jane Doe")
	}
}

func TestPasswordRoundTrip(t *testing.T) {
	hashed, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hashed == "s3cret-pass" {
		t.Fatal("hash must not equal the plaintext")
	}
	if !strings.HasPrefix(hashed, "$2") {
		t.Errorf("hash %q does not look like bcrypt output", hashed)
	}

	u := User{Password: hashed}
	if !u.CheckPassword("s3cret-pass") {
		t.Error("CheckPassword should accept the original password")
	}
	if u.CheckPassword("wrong-pass") {
		t.Error("CheckPassword should reject a wrong password")
	}
}

func TestRefreshTokenMatches(t *testing.T) {
	u := User{RefreshToken: "token-v2"}

	if !u.RefreshTokenMatches("token-v2") {
		t.Error("the stored token must match itself")
	}
	// Rotation overwrote token-v1; presenting it again must fail even though
	// the token itself would still verify.
	if u.RefreshTokenMatches("token-v1") {
		t.Error("a rotated-out token must not match")
	}

	empty := User{}
	if empty.RefreshTokenMatches("") {
		t.Error("a user with no stored token must match nothing")
	}
}

func TestSummaryOmitsCredentials(t *testing.T) {
	u := User{
		FirstName:    "Jane",
		LastName:     "Doe",
		Email:        "jane@example.com",
		Password:     "$2a$10$hash",
		RefreshToken: "some-refresh-token",
	}

	s := u.Summary()
	if s.FullName != "Jane Doe" || s.Email != "jane@example.com" {
		t.Errorf("Summary() = %+v, unexpected identity fields", s)
	}
	// Summary has no credential fields at all; this test documents that the
	// public projection is built from identity fields only.
}
