package auth

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Roles carried by anonymous tokens
const (
	RoleSeeker   = "seeker"
	RoleListener = "listener"
)

// Claims represents the claims in our JWT token. SubjectID is a random
// opaque identifier minted at token issue time; it never maps to a real
// identity.
type Claims struct {
	SubjectID  string `json:"subject_id"`
	Role       string `json:"role"`
	ListenerID string `json:"listener_id,omitempty"`
	jwt.RegisteredClaims
}

func secret() []byte {
	if s := os.Getenv("JWT_SECRET"); s != "" {
		return []byte(s)
	}
	return []byte("healspace-dev-secret")
}

// GenerateAnonymousToken mints a token for a fresh anonymous subject.
// listenerID is set only for listener-role tokens, binding the token to a
// directory profile without revealing anything else.
func GenerateAnonymousToken(role, listenerID string) (string, *Claims, error) {
	if role != RoleSeeker && role != RoleListener {
		return "", nil, errors.New("role must be seeker or listener")
	}
	claims := &Claims{
		SubjectID:  uuid.NewString(),
		Role:       role,
		ListenerID: listenerID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret())
	if err != nil {
		return "", nil, err
	}
	return signed, claims, nil
}

// ValidateToken validates a JWT token and returns the claims
func ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return secret(), nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, jwt.ErrInvalidKey
}
