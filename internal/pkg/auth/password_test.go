package auth

import (
	"strings"
	"testing"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatal("hash must not equal the plaintext")
	}

	if !CheckPassword(hash, "correct horse battery staple") {
		t.Error("expected the original password to verify")
	}
	if CheckPassword(hash, "wrong password") {
		t.Error("expected a wrong password to fail verification")
	}
}

func TestGenerateResetCode(t *testing.T) {
	for i := 0; i < 20; i++ {
		code, err := GenerateResetCode()
		if err != nil {
			t.Fatalf("GenerateResetCode failed: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("expected a 6-digit code, got %q", code)
		}
		for _, r := range code {
			if r < '0' || r > '9' {
				t.Fatalf("expected only digits, got %q", code)
			}
		}
		if code[0] == '0' {
			t.Fatalf("code should not have a leading zero, got %q", code)
		}
	}
}

func TestHashResetCode(t *testing.T) {
	first := HashResetCode("123456")
	second := HashResetCode("123456")
	if first != second {
		t.Error("hashing the same code twice must produce the same digest")
	}
	if first == "123456" {
		t.Error("digest must not equal the code")
	}
	if len(first) != 64 || strings.ToLower(first) != first {
		t.Errorf("expected a lowercase hex SHA-256 digest, got %q", first)
	}
	if HashResetCode("654321") == first {
		t.Error("different codes must produce different digests")
	}
}
