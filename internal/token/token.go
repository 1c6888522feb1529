// Package token видає та перевіряє підписані bearer-токени.
// Перевірка stateless: без звернень до сховища.
package token

import (
	"errors"
	"fmt"
	"time"

	"civicgo/backend/internal/models"

	jwt "github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken повертається для будь-якої причини відмови:
// зіпсований токен, невірний підпис чи протермінування. Клієнт
// не повинен розрізняти ці випадки.
var ErrInvalidToken = errors.New("invalid token")

// Claims — розшифрована ідентичність з валідного токена.
type Claims struct {
	UserID uint
	Email  string
	Role   string
}

// Codec підписує токени секретом процесу з часом життя TTL.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

func NewCodec(secret string, ttl time.Duration) *Codec {
	return &Codec{secret: []byte(secret), ttl: ttl}
}

// Issue генерує JWT для користувача.
func (c *Codec) Issue(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":   fmt.Sprintf("%d", user.ID),
		"email": user.Email,
		"role":  user.Role,
		"exp":   time.Now().Add(c.ttl).Unix(),
		"iss":   "civicgo-service", // Видавець
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Validate перевіряє підпис та термін дії токена і повертає Claims.
func (c *Codec) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		// Приймаємо лише HS256 — захист від alg-підміни
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return c.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	sub, _ := mapClaims["sub"].(string)
	email, _ := mapClaims["email"].(string)
	role, _ := mapClaims["role"].(string)

	var userID uint
	if _, err := fmt.Sscanf(sub, "%d", &userID); err != nil || userID == 0 {
		return nil, ErrInvalidToken
	}

	return &Claims{UserID: userID, Email: email, Role: role}, nil
}
