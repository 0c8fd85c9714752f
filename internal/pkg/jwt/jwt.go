package jwt

import (
	"errors"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"

	"foodgram/internal/access"
	"foodgram/internal/domain"
)

// Service validates bearer tokens issued by the identity provider. Tokens
// share an HS256 secret and carry the user id and role.
type Service struct {
	secret []byte
	ttl    time.Duration
}

// Claims is the identity contract with the identity provider: the user id
// and the role of the account. Unknown roles are treated as plain users.
type Claims struct {
	UserID int64           `json:"user_id"`
	Role   domain.UserRole `json:"role"`
	jwtlib.RegisteredClaims
}

// Actor converts the claims into the identity the access policy evaluates.
func (c *Claims) Actor() access.Actor {
	return access.Actor{
		ID:    c.UserID,
		Admin: c.Role == domain.RoleAdmin,
	}
}

func New(secret string, ttl time.Duration) *Service {
	return &Service{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// GenerateToken signs a token. The API never issues tokens itself; this is
// used by the seed command and tests.
func (s *Service) GenerateToken(userID int64, role domain.UserRole) (string, error) {
	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwtlib.RegisteredClaims{
			ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(s.ttl)),
			IssuedAt:  jwtlib.NewNumericDate(time.Now()),
		},
	}

	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *Service) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwtlib.ParseWithClaims(tokenStr, &Claims{}, func(t *jwtlib.Token) (any, error) {
		return s.secret, nil
	}, jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || claims.UserID <= 0 {
		return nil, errors.New("invalid claims")
	}

	return claims, nil
}
