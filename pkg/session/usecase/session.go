package usecase

import (
	"errors"
	"fmt"
	"strings"
	"time"

	bridgePkg "github.com/KeynihAV/mtbridge/pkg/bridge"
	jwt "github.com/dgrijalva/jwt-go"
)

type SessKey string

const ClaimsKey SessKey = "claims"

type JwtClaims struct {
	Client ClientClaims `json:"client"`
	jwt.StandardClaims
}

type ClientClaims struct {
	Name string `json:"name"`
}

// SessionsManager issues and checks the HS256 tokens bridge clients present.
type SessionsManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewSessionsManager(secret string, ttl time.Duration) (*SessionsManager, error) {
	if secret == "" {
		return nil, fmt.Errorf("auth secret is empty")
	}
	return &SessionsManager{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

func (sm *SessionsManager) parseSecretGetter(token *jwt.Token) (interface{}, error) {
	method, ok := token.Method.(*jwt.SigningMethodHMAC)
	if !ok || method.Alg() != "HS256" {
		return nil, fmt.Errorf("bad sign method")
	}
	return sm.secret, nil
}

func (sm *SessionsManager) CreateToken(clientName string) (string, error) {
	now := sm.now()
	claims := JwtClaims{
		Client: ClientClaims{Name: clientName},
		StandardClaims: jwt.StandardClaims{
			IssuedAt: now.Unix(),
			Subject:  clientName,
		},
	}
	if sm.ttl > 0 {
		claims.ExpiresAt = now.Add(sm.ttl).Unix()
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(sm.secret)
}

// CheckToken accepts a raw token or an "Bearer <token>" header value.
func (sm *SessionsManager) CheckToken(raw string) (*JwtClaims, error) {
	raw = strings.TrimSpace(strings.TrimPrefix(raw, "Bearer "))
	if raw == "" {
		return nil, fmt.Errorf("%w: token is missing", bridgePkg.ErrAuthFailed)
	}
	claims := &JwtClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, sm.parseSecretGetter)
	if err != nil {
		var vErr *jwt.ValidationError
		if errors.As(err, &vErr) && vErr.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, fmt.Errorf("%w: token expired", bridgePkg.ErrAuthFailed)
		}
		return nil, fmt.Errorf("%w: %v", bridgePkg.ErrAuthFailed, err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("%w: invalid token", bridgePkg.ErrAuthFailed)
	}
	return claims, nil
}
