package billing

import "testing"

func TestVerifyBodyToken(t *testing.T) {
	a := NewAuthenticator("secret-1", false)
	if !a.Verify("secret-1", "") {
		t.Error("expected body token to verify")
	}
}

func TestVerifyQueryToken(t *testing.T) {
	a := NewAuthenticator("secret-1", false)
	if !a.Verify("", "secret-1") {
		t.Error("expected query token to verify")
	}
	if !a.Verify("wrong", "secret-1") {
		t.Error("query token should verify even when body token is wrong")
	}
}

func TestVerifyRejectsMismatch(t *testing.T) {
	a := NewAuthenticator("secret-1", false)
	if a.Verify("wrong", "also-wrong") {
		t.Error("expected mismatched tokens to be rejected")
	}
	if a.Verify("", "") {
		t.Error("expected missing tokens to be rejected")
	}
}

func TestVerifyFailsClosedWithoutSecret(t *testing.T) {
	prod := NewAuthenticator("", false)
	if prod.Verify("anything", "anything") {
		t.Error("production must reject when no secret is configured")
	}

	dev := NewAuthenticator("", true)
	if !dev.Verify("", "") {
		t.Error("development mode accepts when no secret is configured")
	}
}
