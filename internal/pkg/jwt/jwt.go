package jwt

import (
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/servicedesk/helpdesk-backend-go/internal/domain/user"
)

// Service issues and verifies the access tokens accepted by the API.
// Tokens are minted by the identity service in production; GenerateAccessToken
// exists for tooling and tests that share the signing secret.
type Service interface {
	GenerateAccessToken(userID uuid.UUID, username string, role user.Role) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenTTL time.Duration
	tokenAuth      *jwtauth.JWTAuth
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenTTL time.Duration) Service {
	return &JWTService{
		accessTokenTTL: accessTokenTTL,
		tokenAuth:      jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

func (j *JWTService) GenerateAccessToken(userID uuid.UUID, username string, role user.Role) (token string, expiresAt int64, err error) {
	expiresAt = time.Now().Add(j.accessTokenTTL).Unix()

	claims := map[string]interface{}{
		"user_id":  userID.String(),
		"username": username,
		"role":     string(role),
		"type":     "access",
		"exp":      expiresAt,
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}
