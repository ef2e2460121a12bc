package auth

import (
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/atrium-hq/atrium/internal/shared"
)

// Tokens issues and verifies the bearer credentials carried by every request.
// Verification is pure: it trusts the signed claims and never reaches into
// storage.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokens constructs a token codec with the given signing secret and TTL.
func NewTokens(secret string, ttl time.Duration) *Tokens {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a token for the given user.
func (t *Tokens) Issue(user *User) (string, error) {
	now := t.now().UTC()
	claims := jwt.MapClaims{
		"sub":  strconv.FormatInt(user.ID, 10),
		"name": user.Name,
		"role": user.Role,
		"iat":  now.Unix(),
		"exp":  now.Add(t.ttl).Unix(),
		"jti":  uuid.NewString(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Verify validates an Authorization header of the exact shape "Bearer <token>"
// and yields the caller's identity. Any other header shape, a bad signature
// or an expired token fails with shared.ErrUnauthenticated.
func (t *Tokens) Verify(authorization string) (shared.Identity, error) {
	parts := strings.SplitN(authorization, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return shared.Identity{}, shared.ErrUnauthenticated
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return t.now() }))
	if err != nil || !token.Valid {
		return shared.Identity{}, shared.ErrUnauthenticated
	}

	sub, _ := claims["sub"].(string)
	id, err := strconv.ParseInt(sub, 10, 64)
	if err != nil || id <= 0 {
		return shared.Identity{}, shared.ErrUnauthenticated
	}
	roleClaim, _ := claims["role"].(string)
	role, err := shared.ParseRole(roleClaim)
	if err != nil {
		return shared.Identity{}, shared.ErrUnauthenticated
	}
	name, _ := claims["name"].(string)

	return shared.Identity{ID: id, Name: name, Role: role}, nil
}
