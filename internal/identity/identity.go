// Package identity establishes who is calling the inventory API.
package identity

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tuanvumaihuynh/inventory-keeper/internal/config"
)

var (
	ErrMissingToken     = errors.New("missing bearer token")
	ErrInvalidToken     = errors.New("invalid bearer token")
	ErrIdentityMismatch = errors.New("asserted uid does not match token subject")
)

// Verifier resolves the caller identity of r. claimedUID is the uid the
// caller asserted in the request body, possibly empty.
type Verifier interface {
	Identify(r *http.Request, claimedUID string) (string, error)
}

// NewVerifier builds the verifier selected by cfg.Mode.
func NewVerifier(cfg config.Auth) (Verifier, error) {
	switch cfg.Mode {
	case config.AuthModeTrusted:
		return TrustedVerifier{}, nil
	case config.AuthModeJWT:
		if cfg.JWTSecret == "" {
			return nil, errors.New("AUTH_JWT_SECRET is required when AUTH_MODE is JWT")
		}
		return &JWTVerifier{
			secret:   []byte(cfg.JWTSecret),
			issuer:   cfg.JWTIssuer,
			audience: cfg.JWTAudience,
			now:      time.Now,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported auth mode: %s", cfg.Mode)
	}
}

// TrustedVerifier takes the asserted uid as-is.
type TrustedVerifier struct{}

func (TrustedVerifier) Identify(_ *http.Request, claimedUID string) (string, error) {
	return claimedUID, nil
}

// JWTVerifier accepts HS256 bearer tokens and uses their subject as the
// caller identity.
type JWTVerifier struct {
	secret   []byte
	issuer   string
	audience string
	now      func() time.Time
}

func (v *JWTVerifier) Identify(r *http.Request, claimedUID string) (string, error) {
	raw, ok := bearerToken(r)
	if !ok {
		return "", ErrMissingToken
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	var claims jwt.RegisteredClaims
	if _, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...); err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	subject := strings.TrimSpace(claims.Subject)
	if subject == "" {
		return "", fmt.Errorf("%w: subject is required", ErrInvalidToken)
	}
	if claimedUID != "" && claimedUID != subject {
		return "", ErrIdentityMismatch
	}

	return subject, nil
}

func bearerToken(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
