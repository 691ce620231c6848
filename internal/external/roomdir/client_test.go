package roomdir_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"hall/config"
	otelMock "hall/infras/otel/mocks"
	"hall/internal/external/roomdir"
	"hall/shared/failure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDirectory(baseURL string, timeoutMS int) roomdir.Directory {
	cfg := &config.Config{}
	cfg.External.RoomDirectory.BaseURL = baseURL
	cfg.External.RoomDirectory.TimeoutMS = timeoutMS
	cfg.External.RoomDirectory.APIKey = "test-key"

	return roomdir.New(cfg, otelMock.NewOtel())
}

func TestGetRoomFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rooms/room-1", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-API-Key"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(roomdir.Room{ID: "room-1", Name: "Boardroom", Capacity: 12, IsActive: true})
	}))
	defer server.Close()

	directory := newDirectory(server.URL, 1000)

	room, err := directory.GetRoom(context.Background(), "room-1")
	require.NoError(t, err)
	assert.Equal(t, "room-1", room.ID)
	assert.Equal(t, "Boardroom", room.Name)
}

func TestGetRoomNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	directory := newDirectory(server.URL, 1000)

	_, err := directory.GetRoom(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
}

func TestGetRoomInactiveTreatedAsNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(roomdir.Room{ID: "room-2", Name: "Storage", IsActive: false})
	}))
	defer server.Close()

	directory := newDirectory(server.URL, 1000)

	_, err := directory.GetRoom(context.Background(), "room-2")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
}

func TestGetRoomDirectoryErrorTreatedAsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	directory := newDirectory(server.URL, 1000)

	_, err := directory.GetRoom(context.Background(), "room-1")
	require.Error(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, failure.GetCode(err))
}

func TestGetRoomUnreachableDirectory(t *testing.T) {
	// Closed server: connection refused.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	directory := newDirectory(server.URL, 100)

	_, err := directory.GetRoom(context.Background(), "room-1")
	require.Error(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, failure.GetCode(err))
}
