package security

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Session issues the signed session identifiers handed out at first login.
// Nothing in the API verifies them; any caller may act as any user.
type Session struct {
	secretKey []byte
}

func NewSession(secretKey []byte) *Session {
	return &Session{secretKey: secretKey}
}

func (s *Session) GenerateToken(userName string) (string, error) {
	claims := jwt.MapClaims{
		"sub": userName,
		"sid": uuid.New().String(),
		"iss": "disposable-chat-app",
		"iat": time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	return token.SignedString(s.secretKey)
}
