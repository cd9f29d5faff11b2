package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken - подпись, срок или формат токена не прошли проверку
var ErrInvalidToken = errors.New("invalid token")

const issuer = "mazmorra"

// Claims - токен входа: герой, за которого играет клиент
type Claims struct {
	HeroID string `json:"hero_id"`
	jwt.RegisteredClaims
}

// Issuer выдает и проверяет токены героев (HS256)
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer создает выдачу токенов. Пустой секрет - ошибка конфигурации.
func NewIssuer(secret string, ttl time.Duration) (*Issuer, error) {
	if len(secret) < 16 {
		return nil, errors.New("jwt secret must be at least 16 bytes")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Issue подписывает токен для героя
func (i *Issuer) Issue(heroID string) (string, error) {
	now := i.now()
	claims := &Claims{
		HeroID: heroID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    issuer,
			Subject:   heroID,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

// Verify проверяет токен и возвращает ID героя
func (i *Issuer) Verify(tokenString string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Verify signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return i.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(i.now))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.HeroID == "" {
		return "", ErrInvalidToken
	}
	return claims.HeroID, nil
}
