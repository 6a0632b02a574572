package auth

import "testing"

// ハッシュ化したパスワードが検証に成功することを検証
func TestHashPassword_VerifyRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "" {
		t.Fatal("expected non-empty hash")
	}

	if !VerifyPassword(hash, "correct horse battery staple") {
		t.Error("expected password to verify")
	}
	if VerifyPassword(hash, "wrong password") {
		t.Error("expected wrong password to fail")
	}
}

// 空ハッシュ（ソーシャルログイン専用アカウント）には何も一致しないことを検証
func TestVerifyPassword_EmptyHash_NeverMatches(t *testing.T) {
	if VerifyPassword("", "") {
		t.Error("empty hash must not match empty password")
	}
	if VerifyPassword("", "anything") {
		t.Error("empty hash must not match any password")
	}
}
