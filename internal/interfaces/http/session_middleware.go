package http

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/backoffice-api/internal/application/datasync"
	"github.com/jhoicas/backoffice-api/internal/application/dto"
	"github.com/jhoicas/backoffice-api/pkg/logger"
)

const localEngine = "engine"

// SessionMiddleware abre (o reutiliza) el engine del usuario del token y espera su primer
// snapshot hasta readyTimeout. Si vence, la petición sigue y las respuestas salen con synced=false.
// Debe usarse DESPUÉS de AuthMiddleware.
func SessionMiddleware(reg *datasync.Registry, readyTimeout time.Duration, log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := GetUserID(c)
		if userID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "user_id no encontrado en el token"})
		}
		eng, done, err := reg.Acquire(c.UserContext(), userID)
		if err != nil {
			log.Error().Err(err).Str("user_id", userID).Msg("abrir sesión de sincronización")
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code: "SYNC_UNAVAILABLE", Message: "no se pudo conectar con el almacén, intente más tarde",
			})
		}
		// el engine no se expulsa mientras la petición lo use
		defer done()
		if readyTimeout > 0 {
			ctx, cancel := context.WithTimeout(c.UserContext(), readyTimeout)
			err := eng.Ready(ctx)
			cancel()
			if err != nil && !errors.Is(err, context.DeadlineExceeded) {
				return writeError(c, err)
			}
		}
		c.Locals(localEngine, eng)
		return c.Next()
	}
}

// GetEngine devuelve el engine de la sesión (después de SessionMiddleware).
func GetEngine(c *fiber.Ctx) *datasync.Engine {
	e, _ := c.Locals(localEngine).(*datasync.Engine)
	return e
}
