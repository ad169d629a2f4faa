package execctx

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	raw, err := token.SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return raw
}

func TestActorFromToken(t *testing.T) {
	raw := signedToken(t, jwt.MapClaims{"sub": "svc-payments"})

	actor, err := ActorFromToken(raw)
	if err != nil {
		t.Fatalf("ActorFromToken() error = %v", err)
	}
	if actor != "svc-payments" {
		t.Errorf("actor = %q, want svc-payments", actor)
	}
}

func TestActorFromToken_BearerPrefix(t *testing.T) {
	raw := signedToken(t, jwt.MapClaims{"sub": "svc-orders"})

	actor, err := ActorFromToken("Bearer " + raw)
	if err != nil {
		t.Fatalf("ActorFromToken() error = %v", err)
	}
	if actor != "svc-orders" {
		t.Errorf("actor = %q, want svc-orders", actor)
	}
}

func TestActorFromToken_Empty(t *testing.T) {
	if _, err := ActorFromToken("  "); err != ErrEmptyToken {
		t.Errorf("error = %v, want ErrEmptyToken", err)
	}
}

func TestActorFromToken_NoSubject(t *testing.T) {
	raw := signedToken(t, jwt.MapClaims{"aud": "someone"})

	if _, err := ActorFromToken(raw); err != ErrNoSubject {
		t.Errorf("error = %v, want ErrNoSubject", err)
	}
}

func TestActorFromToken_Garbage(t *testing.T) {
	if _, err := ActorFromToken("not.a.token"); err == nil {
		t.Error("expected error for malformed token")
	}
}

func TestWithActorFromToken(t *testing.T) {
	raw := signedToken(t, jwt.MapClaims{"sub": "svc-billing"})

	ec := New(WithActorFromToken(raw))
	if ec.ActorID != "svc-billing" {
		t.Errorf("ActorID = %q, want svc-billing", ec.ActorID)
	}

	// Malformed tokens leave the actor empty rather than failing creation.
	ec = New(WithActorFromToken("garbage"))
	if ec.ActorID != "" {
		t.Errorf("ActorID = %q, want empty", ec.ActorID)
	}
}
