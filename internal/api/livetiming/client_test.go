package livetiming

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/sessions", r.URL.Path)
		assert.Equal(t, "2024", r.URL.Query().Get("year"))
		assert.Equal(t, "Monaco", r.URL.Query().Get("event"))
		assert.Equal(t, "R", r.URL.Query().Get("session"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"session_key":"2024_monaco_r","year":2024,"event_name":"Monaco","session_type":"R"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	info, err := client.GetSession(context.Background(), 2024, "Monaco", "R")
	require.NoError(t, err)

	assert.Equal(t, "2024_monaco_r", info.SessionKey)
	assert.Equal(t, 2024, info.Year)
}

func TestGetSessionUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	_, err := client.GetSession(context.Background(), 2019, "Las Vegas", "R")
	assert.ErrorIs(t, err, ErrSessionUnavailable)
}

func TestGetSessionRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	_, err := client.GetSession(context.Background(), 2024, "Monza", "Q")
	assert.ErrorIs(t, err, ErrRateLimited)
}

func TestListLaps(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/sessions/2024_monaco_r/laps", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"driver":"LEC","lap_number":42,"lap_time_ms":74567,"sector1_ms":18000},
			{"driver":"VER","lap_number":43,"lap_time_ms":74890}
		]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	laps, err := client.ListLaps(context.Background(), "2024_monaco_r")
	require.NoError(t, err)
	require.Len(t, laps, 2)

	assert.Equal(t, "LEC", laps[0].Driver)
	require.NotNil(t, laps[0].Sector1Ms)
	assert.EqualValues(t, 18000, *laps[0].Sector1Ms)
	assert.Nil(t, laps[1].Sector1Ms, "missing sector times stay nil")
}

func TestGetLapTelemetryEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	_, err := client.GetLapTelemetry(context.Background(), "2024_monaco_r", "LEC", 42)
	assert.ErrorIs(t, err, ErrNoTelemetry)
}

func TestGetLapTelemetry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/sessions/2024_monaco_r/laps/LEC/42/telemetry", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"time_seconds":0,"x":12.5,"y":-3.2,"speed_kmh":280,"throttle":100,"brake":0,"rpm":11200,"gear":7,"drs":10},
			{"time_seconds":0.2,"x":27.9,"y":-3.1,"speed_kmh":282,"throttle":100,"brake":0,"rpm":11300,"gear":7}
		]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	samples, err := client.GetLapTelemetry(context.Background(), "2024_monaco_r", "LEC", 42)
	require.NoError(t, err)
	require.Len(t, samples, 2)

	require.NotNil(t, samples[0].DRS)
	assert.Equal(t, 10, *samples[0].DRS)
	assert.Nil(t, samples[1].DRS)
	assert.Equal(t, 282.0, samples[1].SpeedKmh)
}
