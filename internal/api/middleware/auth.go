// Package middleware містить наскрізний конвеєр запитів: розв'язання
// ідентичності з bearer-токена, табличну авторизацію за маршрутами
// та rate limiting.
package middleware

import (
	"log"
	"net/http"
	"strings"

	"civicgo/backend/internal/models"
	"civicgo/backend/internal/storage"
	"civicgo/backend/internal/token"

	"github.com/gin-gonic/gin"
)

// Ключ контексту Gin з автентифікованим користувачем.
const ContextUserKey = "currentUser"

// Identity витягує bearer-токен, валідує його та підвантажує живий запис
// користувача на кожен запит — без кешування, щоб кожен запит бачив
// актуальну роль та enabled-стан. Будь-яка відмова означає anonymous;
// рішення про відхилення приймає Authorize.
func Identity(codec *token.Codec, store storage.Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			c.Next()
			return
		}

		claims, err := codec.Validate(tokenString)
		if err != nil {
			c.Next() // невалідний токен = анонім
			return
		}

		user, err := store.GetUserByID(claims.UserID)
		if err != nil {
			log.Printf("ERROR: Failed to resolve user %d from token: %v", claims.UserID, err)
			c.Next()
			return
		}
		if user == nil || !user.Enabled {
			c.Next()
			return
		}

		c.Set(ContextUserKey, user)
		c.Next()
	}
}

// extractToken читає токен з Authorization: Bearer або, для WebSocket
// з браузера, з query-параметра token.
func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return authHeader[7:]
	}
	return c.Query("token")
}

// CurrentUser повертає автентифікованого користувача з контексту, або nil.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(ContextUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

// AccessRule — один рядок політики доступу.
type AccessRule struct {
	Prefix string
	Public bool
	// Порожній список при Public=false означає: будь-яка
	// автентифікована ідентичність.
	Roles []string
}

// DefaultPolicy — політика маршрутів, оцінюється зверху вниз,
// перше співпадіння виграє.
func DefaultPolicy() []AccessRule {
	return []AccessRule{
		{Prefix: "/auth/signin", Public: true},
		{Prefix: "/auth/signup", Public: true},
		{Prefix: "/public/", Public: true},
		{Prefix: "/uploads/", Public: true},
		{Prefix: "/admin/", Roles: []string{models.RoleAdmin}},
		{Prefix: "/citizen/", Roles: []string{models.RoleCitizen, models.RoleAdmin}},
		{Prefix: ""}, // все інше: будь-який автентифікований
	}
}

// Authorize відрізає запит до бізнес-логіки: 401 для аноніма на
// захищеному маршруті, 403 для валідної ідентичності з недостатньою
// роллю. Деталі того, яка саме перевірка не пройшла, не розкриваються.
func Authorize(policy []AccessRule) gin.HandlerFunc {
	return func(c *gin.Context) {
		rule := matchRule(policy, c.Request.URL.Path)
		if rule == nil || rule.Public {
			c.Next()
			return
		}

		user := CurrentUser(c)
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		if len(rule.Roles) > 0 && !hasRole(rule.Roles, user.Role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			return
		}

		c.Next()
	}
}

func matchRule(policy []AccessRule, path string) *AccessRule {
	for i := range policy {
		if strings.HasPrefix(path, policy[i].Prefix) {
			return &policy[i]
		}
	}
	return nil
}

func hasRole(allowed []string, role string) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}
