package session

import "testing"

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret")

	signed, err := issuer.Issue(Identity{MemberID: "123", Name: "Alice Officer"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	claims, err := issuer.Verify(signed)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if claims.MemberID != "123" || claims.Name != "Alice Officer" {
		t.Errorf("Unexpected claims %+v", claims)
	}
}

func TestTokenWrongSecretRejected(t *testing.T) {
	signed, err := NewTokenIssuer("secret-a").Issue(Identity{Name: "Alice"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if _, err := NewTokenIssuer("secret-b").Verify(signed); err == nil {
		t.Error("Expected verification to fail with a different secret")
	}
}

func TestTokenGarbageRejected(t *testing.T) {
	if _, err := NewTokenIssuer("secret").Verify("not-a-token"); err == nil {
		t.Error("Expected garbage token to be rejected")
	}
}
