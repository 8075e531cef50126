package middleware

import (
	"backend/internal/app/role"

	"github.com/gin-gonic/gin"
)

const principalKey = "principal"

// Principal - аутентифицированный участник запроса. Кладётся в контекст
// middleware-ом авторизации; глобального состояния сессии нет.
type Principal struct {
	ID          uint
	DisplayName string
	Role        role.Role
}

// PrincipalFromContext извлекает участника текущего запроса.
func PrincipalFromContext(c *gin.Context) (*Principal, bool) {
	v, exists := c.Get(principalKey)
	if !exists {
		return nil, false
	}
	p, ok := v.(*Principal)
	if !ok {
		return nil, false
	}
	return p, true
}

func setPrincipal(c *gin.Context, p *Principal) {
	c.Set(principalKey, p)
}
