package roomdir

//go:generate go run go.uber.org/mock/mockgen -source=./client.go -destination=./mocks/client_mock.go -package=mocks

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"hall/config"
	"hall/infras/otel"
	"hall/shared/constant"
	"hall/shared/failure"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
)

// Room is the directory's view of a bookable room.
type Room struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
	IsActive bool   `json:"is_active"`
}

// Directory resolves rooms against the room directory service. Calls carry a
// bounded timeout; an unreachable directory surfaces as ServiceUnavailable so
// callers abort before taking any lock or writing anything.
type Directory interface {
	GetRoom(ctx context.Context, roomID string) (Room, error)
}

type restyDirectory struct {
	client *resty.Client
	otel   otel.Otel
}

func New(cfg *config.Config, otl otel.Otel) Directory {
	client := resty.New().
		SetBaseURL(cfg.External.RoomDirectory.BaseURL).
		SetTimeout(time.Duration(cfg.External.RoomDirectory.TimeoutMS) * time.Millisecond).
		SetHeader(constant.RequestHeaderAPIKey, cfg.External.RoomDirectory.APIKey).
		SetHeader(constant.RequestHeaderContentType, constant.ContentTypeJSON)

	return &restyDirectory{
		client: client,
		otel:   otl,
	}
}

func (d *restyDirectory) GetRoom(ctx context.Context, roomID string) (room Room, err error) {
	ctx, scope := d.otel.NewScope(ctx, constant.OtelExternalScopeName, constant.OtelExternalScopeName+".RoomDirectory.GetRoom")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute("room.id", roomID)

	resp, err := d.client.R().
		SetContext(ctx).
		SetResult(&room).
		Get("/rooms/" + roomID)
	if err != nil {
		log.Error().Err(err).Str("room_id", roomID).Msg("Room directory unreachable")

		return Room{}, failure.ServiceUnavailable("room directory unreachable")
	}

	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return Room{}, failure.NotFound("room")
	case resp.IsError():
		log.Error().Int("status", resp.StatusCode()).Str("room_id", roomID).Msg("Room directory returned an error")

		return Room{}, failure.ServiceUnavailable(fmt.Sprintf("room directory returned status %d", resp.StatusCode()))
	}

	if !room.IsActive {
		return Room{}, failure.NotFound("room")
	}

	return room, nil
}
