package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// CookieName is the cookie consulted when no Authorization header is present.
const CookieName = "auth_token"

// TokenVerifier verifies HMAC-signed bearer tokens and extracts the
// employee ID carried in the subject claim.
type TokenVerifier struct {
	secret []byte
	parser *jwt.Parser
}

// NewTokenVerifier creates a TokenVerifier for the given shared secret.
// Only HS256 tokens are accepted.
func NewTokenVerifier(secret string) *TokenVerifier {
	return &TokenVerifier{
		secret: []byte(secret),
		parser: jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})),
	}
}

// TokenFromRequest extracts the raw token from a request. The Authorization
// header takes precedence; the auth cookie is the fallback. Returns an empty
// string when the request carries no token at all.
func TokenFromRequest(r *http.Request) string {
	if authHeader := strings.TrimSpace(r.Header.Get("Authorization")); authHeader != "" {
		parts := strings.Fields(authHeader)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
		return ""
	}

	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// ExtractEmployeeID verifies the token signature and returns the employee ID
// from the subject claim.
func (tv *TokenVerifier) ExtractEmployeeID(token string) (uuid.UUID, error) {
	if len(tv.secret) == 0 {
		return uuid.Nil, errors.New("token secret not configured")
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := tv.parser.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return tv.secret, nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	if !parsed.Valid {
		return uuid.Nil, errors.New("invalid token")
	}
	if claims.Subject == "" {
		return uuid.Nil, errors.New("subject claim required")
	}

	employeeID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, errors.New("subject claim is not a valid employee id")
	}
	return employeeID, nil
}
