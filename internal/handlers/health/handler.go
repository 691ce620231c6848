package health

import (
	"net/http"

	"hall/infras/postgres"
	"hall/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	db    *postgres.Connection
	redis *redis.Client
}

func New(db *postgres.Connection, redis *redis.Client) Handler {
	return Handler{
		db:    db,
		redis: redis,
	}
}

func (h *Handler) Router(router chi.Router) {
	router.Get("/health", h.Health)
}

// Health reports readiness of the service and its backing stores.
// @Summary Health check
// @Description Report readiness of the service, its database and its cache.
// @Tags Health
// @Produce json
// @Success 200 {object} response.Message
// @Failure 503 {object} response.Message
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.db == nil || h.db.Read == nil || h.db.Write == nil {
		response.WithUnhealthy(w)

		return
	}

	if err := h.db.Read.PingContext(ctx); err != nil {
		log.Error().Err(err).Msg("health check failed: read database unreachable")
		response.WithUnhealthy(w)

		return
	}

	if err := h.redis.Ping(ctx).Err(); err != nil {
		log.Error().Err(err).Msg("health check failed: redis unreachable")
		response.WithUnhealthy(w)

		return
	}

	response.WithMessage(w, http.StatusOK, "OK")
}
