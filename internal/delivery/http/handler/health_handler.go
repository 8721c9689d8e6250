package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/journey-planner/internal/breaker"
)

// Pinger - зависимость с проверкой доступности (Redis, Postgres)
type Pinger interface {
	Health(ctx context.Context) error
}

// BackendStates - состояние breaker'ов инстансов backend'а
type BackendStates interface {
	Instances() []string
	BreakerState(key string) (breaker.State, bool)
}

// HealthHandler - проверка состояния сервиса
type HealthHandler struct {
	backends BackendStates
	deps     map[string]Pinger
	now      func() time.Time
}

// NewHealthHandler - создание нового HealthHandler. deps может быть пустым.
func NewHealthHandler(backends BackendStates, deps map[string]Pinger) *HealthHandler {
	return &HealthHandler{
		backends: backends,
		deps:     deps,
		now:      time.Now,
	}
}

// Health - сервис жив; деградация зависимостей отражается в статусе, но не в коде ответа
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	status := "healthy"

	backends := fiber.Map{}
	if h.backends != nil {
		for _, key := range h.backends.Instances() {
			state, _ := h.backends.BreakerState(key)
			backends[key] = string(state)
			if state != breaker.StateClosed {
				status = "degraded"
			}
		}
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	deps := fiber.Map{}
	for name, dep := range h.deps {
		if err := dep.Health(ctx); err != nil {
			deps[name] = err.Error()
			status = "degraded"
			continue
		}
		deps[name] = "ok"
	}

	return c.JSON(fiber.Map{
		"status":       status,
		"time":         h.now(),
		"backends":     backends,
		"dependencies": deps,
	})
}
