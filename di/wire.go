//go:build wireinject
// +build wireinject

package di

import (
	"hall/config"
	"hall/infras/jwt"
	"hall/infras/kafka"
	"hall/infras/otel"
	"hall/infras/postgres"
	"hall/infras/redis"
	"hall/shared/cache"
	"hall/shared/lock"
	"hall/transport/http"
	"hall/transport/http/middleware"
	"hall/transport/http/router"

	"hall/internal/domains/booking/conflict"
	"hall/internal/domains/booking/event"
	bookingRepository "hall/internal/domains/booking/repository"
	bookingService "hall/internal/domains/booking/service"
	"hall/internal/external/roomdir"
	bookingHandler "hall/internal/handlers/booking"
	healthHandler "hall/internal/handlers/health"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
	lock.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	conflict.New,
	event.NewKafkaPublisher,
	roomdir.New,
	bookingService.New,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	bookingHandler.New,
	healthHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		bookingDomain,
		routing,
		http.New,
	)

	return &http.HTTP{}
}
