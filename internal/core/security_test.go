// AngelaMos | 2026
// security_test.go

package core

import (
	"strings"
	"testing"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("pass1234")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Fatalf("expected PHC argon2id format, got %q", hash)
	}

	match, err := VerifyPassword("pass1234", hash)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if !match {
		t.Fatal("correct password did not verify")
	}

	match, err = VerifyPassword("wrongpass", hash)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if match {
		t.Fatal("wrong password verified")
	}
}

func TestHashPasswordSaltsDiffer(t *testing.T) {
	h1, err := HashPassword("pass1234")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	h2, err := HashPassword("pass1234")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if h1 == h2 {
		t.Fatal("two hashes of the same password should not be equal")
	}
}

func TestVerifyPasswordRejectsMalformedHash(t *testing.T) {
	if _, err := VerifyPassword("pass1234", "not-a-hash"); err == nil {
		t.Fatal("expected error for malformed hash")
	}
}

func TestGenerateResetToken(t *testing.T) {
	token, err := GenerateResetToken()
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	// 32 random bytes hex encoded.
	if len(token) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(token))
	}

	other, err := GenerateResetToken()
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if token == other {
		t.Fatal("two tokens should not collide")
	}
}

func TestHashTokenIsDeterministic(t *testing.T) {
	token := "abc123"
	if HashToken(token) != HashToken(token) {
		t.Fatal("digest of the same token must be stable")
	}
	if HashToken(token) == token {
		t.Fatal("digest must differ from the raw token")
	}
}

func TestCompareTokenHash(t *testing.T) {
	token, err := GenerateResetToken()
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	digest := HashToken(token)

	if !CompareTokenHash(token, digest) {
		t.Fatal("valid token did not match its digest")
	}
	if CompareTokenHash("tampered", digest) {
		t.Fatal("wrong token matched the digest")
	}
}
