package webhook

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dahroug-h/EECE27team/internal/application/ports"
)

func TestHTTPEmitterSignsBody(t *testing.T) {
	var got ports.Event
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Equal(t, "1700000000", r.Header.Get(TimestampHeader))
		assert.Equal(t, Sign([]byte("s3cret"), "1700000000", body), r.Header.Get(SignatureHeader))
		assert.Equal(t, ports.EventApplicationCreated, r.Header.Get(EventHeader))
		assert.Equal(t, "yes", r.Header.Get("X-Extra"))
		require.NoError(t, json.Unmarshal(body, &got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	e := NewHTTPEmitter(srv.URL, WithSecret("s3cret"), WithHeader("X-Extra", "yes"))
	e.now = func() time.Time { return time.Unix(1700000000, 0) }

	ev := ports.Event{Name: ports.EventApplicationCreated, ProjectID: "p", UserID: "u", ApplicationID: "a"}
	require.NoError(t, e.Emit(context.Background(), ev))
	assert.Equal(t, "p", got.ProjectID)
	assert.Equal(t, "a", got.ApplicationID)
}

func TestHTTPEmitterNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	err := NewHTTPEmitter(srv.URL).Emit(context.Background(), ports.Event{Name: ports.EventProjectCreated})
	var emitErr *EmitError
	require.ErrorAs(t, err, &emitErr)
	assert.Equal(t, http.StatusBadGateway, emitErr.Status)
}
