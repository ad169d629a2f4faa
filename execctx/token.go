package execctx

import (
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Token errors.
var (
	// ErrEmptyToken indicates an empty bearer token.
	ErrEmptyToken = errors.New("execctx: empty token")

	// ErrNoSubject indicates the token carries no subject claim.
	ErrNoSubject = errors.New("execctx: token has no subject")
)

// ActorFromToken extracts the subject claim of a bearer token for actor
// attribution. The signature is NOT verified here: attribution in logs and
// incidents must work even when this process is not the token's audience.
// Callers that gate access on the token must verify it separately.
func ActorFromToken(raw string) (string, error) {
	raw = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "Bearer "))
	if raw == "" {
		return "", ErrEmptyToken
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return "", err
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", ErrNoSubject
	}
	return sub, nil
}

// WithActorFromToken sets the actor from a bearer token's subject claim.
// Unparseable tokens leave the actor empty.
func WithActorFromToken(raw string) Option {
	return func(c *Context) {
		if sub, err := ActorFromToken(raw); err == nil {
			c.ActorID = sub
		}
	}
}
