package auth

import "testing"

func TestHashAndVerifyPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("changeme123")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if hash == "" {
		t.Fatalf("expected non-empty hash")
	}
	if !VerifyPassword("changeme123", hash) {
		t.Fatalf("expected password verification to succeed")
	}
	if VerifyPassword("wrong-password", hash) {
		t.Fatalf("did not expect wrong password to verify")
	}
}

func TestNormalizeUsername(t *testing.T) {
	t.Parallel()

	if got := NormalizeUsername(" Admin "); got != "admin" {
		t.Fatalf("unexpected normalized username: %q", got)
	}
}

func TestValidateUsername(t *testing.T) {
	t.Parallel()

	if err := ValidateUsername("word.smith-42"); err != nil {
		t.Fatalf("expected valid username, got %v", err)
	}
	if err := ValidateUsername("x"); err == nil {
		t.Fatalf("expected too-short username to fail")
	}
	if err := ValidateUsername("bad user"); err == nil {
		t.Fatalf("expected username with space to fail")
	}
}

func TestValidatePassword(t *testing.T) {
	t.Parallel()

	if err := ValidatePassword("longenough"); err != nil {
		t.Fatalf("expected valid password, got %v", err)
	}
	if err := ValidatePassword("short"); err == nil {
		t.Fatalf("expected short password to fail")
	}
}
