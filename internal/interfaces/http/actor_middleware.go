package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gudang-api/pkg/jwt"
	"github.com/jhoicas/gudang-api/pkg/logger"
)

// LocalActor key de c.Locals con el identificador del operador.
const LocalActor = "actor"

// ActorMiddleware identifica al operador desde un Bearer Token JWT opcional.
// No autentica: sin token, o con uno inválido, la petición sigue como anónima.
func ActorMiddleware(jwtSecret, issuer string, log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if jwtSecret == "" {
			return c.Next()
		}
		authHeader := c.Get(fiber.HeaderAuthorization)
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Next()
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Next()
		}
		userID, err := jwt.Parse(jwtSecret, issuer, tokenString)
		if err != nil {
			log.Debug().Err(err).Msg("token de operador ignorado")
			return c.Next()
		}
		c.Locals(LocalActor, userID)
		return c.Next()
	}
}

// GetActor devuelve el operador del contexto; vacío si la petición es anónima.
func GetActor(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalActor).(string)
	return s
}
