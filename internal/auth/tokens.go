package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// TokenKind is the purpose a token was issued for. It is embedded in the
// signed payload as the scope claim, so a token of one kind can never be
// accepted where another kind is expected.
type TokenKind string

const (
	TokenAccess       TokenKind = "access_token"
	TokenRefresh      TokenKind = "refresh_token"
	TokenConfirmation TokenKind = "email_token"
)

type Claims struct {
	Scope TokenKind `json:"scope"`
	jwt.RegisteredClaims
}

// Codec signs and verifies the three token kinds as self-contained HS256
// bearer tokens. The secret is fixed at construction; rotating it
// invalidates every token issued before the rotation.
type Codec struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	confirmTTL time.Duration
}

func NewCodec(secret []byte, accessTTL, refreshTTL, confirmTTL time.Duration) *Codec {
	return &Codec{
		secret:     secret,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		confirmTTL: confirmTTL,
	}
}

func (c *Codec) ttl(kind TokenKind) time.Duration {
	switch kind {
	case TokenRefresh:
		return c.refreshTTL
	case TokenConfirmation:
		return c.confirmTTL
	default:
		return c.accessTTL
	}
}

// Issue builds and signs a token of the given kind for subject email,
// valid from now for the kind's configured TTL.
func (c *Codec) Issue(kind TokenKind, email string) (string, error) {
	now := time.Now()
	claims := Claims{
		Scope: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			// The jti keeps two tokens minted within the same second from
			// being textually identical, which rotation relies on.
			ID:        uuid.NewString(),
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl(kind))),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Decode verifies a token and returns its subject. It fails with
// ErrTokenExpired when the token is past its expiry, ErrWrongTokenKind
// when a well-formed token was issued for a different purpose, and
// ErrMalformedToken for anything that does not verify.
func (c *Codec) Decode(tokenString string, expected TokenKind) (string, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrMalformedToken
		}
		return c.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		var ve *jwt.ValidationError
		if errors.As(err, &ve) && ve.Errors&jwt.ValidationErrorExpired != 0 {
			return "", ErrTokenExpired
		}
		return "", ErrMalformedToken
	}

	if !token.Valid {
		return "", ErrMalformedToken
	}
	if claims.Scope != expected {
		return "", ErrWrongTokenKind
	}
	return claims.Subject, nil
}
