package token

import (
	"time"

	"ecommerce_api/internal/apperrors"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is the caller identity carried by a verified token. The auth
// middleware resolves it once per request and hands it to handlers; nothing
// downstream touches the raw token.
type Identity struct {
	UserID uint
	Role   string
}

type Claims struct {
	UserID uint   `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type Maker struct {
	secret []byte
	ttl    time.Duration
}

func NewMaker(secret string, ttl time.Duration) *Maker {
	return &Maker{secret: []byte(secret), ttl: ttl}
}

func (m *Maker) Create(userID uint, role string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

func (m *Maker) Verify(tokenString string) (*Identity, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperrors.New(apperrors.KindUnauthorized, "unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, apperrors.Wrap(err, apperrors.KindUnauthorized, "invalid or expired token")
	}
	return &Identity{UserID: claims.UserID, Role: claims.Role}, nil
}
