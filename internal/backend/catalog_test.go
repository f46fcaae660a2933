package backend

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jornada-tracker/internal/domain"
	"jornada-tracker/internal/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClientWithHTTP(srv.URL, srv.Client(), nil)
}

func TestIsActiveRecord(t *testing.T) {
	tests := []struct {
		name     string
		record   Record
		expected bool
	}{
		{"no status and no flag", Record{"_id": "p1", "nombre": "Corte"}, true},
		{"status inactive", Record{"status": "inactive"}, false},
		{"status active", Record{"status": "active"}, true},
		{"estado activo", Record{"estado": "activo"}, true},
		{"estado inactivo", Record{"estado": "inactivo"}, false},
		{"active string one", Record{"active": "1"}, true},
		{"active number one", Record{"active": float64(1)}, true},
		{"active true", Record{"active": true}, true},
		{"active string true", Record{"active": "true"}, true},
		{"activo true", Record{"activo": true}, true},
		{"active false", Record{"active": false}, false},
		{"active zero", Record{"active": float64(0)}, false},
		{"active null", Record{"active": nil}, false},
		{"inactive status but active flag", Record{"status": "inactive", "active": true}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsActiveRecord(tt.record))
		})
	}
}

func TestDecodeRecords(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		count int
	}{
		{"bare array", `[{"_id":"p1"},{"_id":"p2"}]`, 2},
		{"procesos wrapper", `{"procesos":[{"_id":"p1"}]}`, 1},
		{"processes wrapper", `{"processes":[{"id":"p1"},{"id":"p2"},{"id":"p3"}]}`, 3},
		{"unknown object", `{"data":[{"_id":"p1"}]}`, 0},
		{"wrapper is not a list", `{"procesos":"none"}`, 0},
		{"empty body", ``, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := DecodeRecords([]byte(tt.body))
			require.NoError(t, err)
			assert.Len(t, records, tt.count)
		})
	}

	_, err := DecodeRecords([]byte(`[{"_id":`))
	assert.Error(t, err)
}

func TestActiveProcesses_Filter(t *testing.T) {
	records := []Record{
		{"_id": "p1", "nombre": "Corte"},
		{"_id": "p2", "nombre": "Pintura", "status": "inactive"},
		{"id": "p3", "name": "Ensamble", "active": "1"},
	}

	assert.Equal(t, []domain.Process{
		{ID: "p1", Name: "Corte"},
		{ID: "p3", Name: "Ensamble"},
	}, ActiveProcesses(records))
}

func TestClient_ActiveProcesses(t *testing.T) {
	var gotArea string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/procesos", r.URL.Path)
		gotArea = r.URL.Query().Get("areaId")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"procesos":[{"_id":"p1","nombre":"Corte"},{"_id":"p2","nombre":"Pulido","estado":"inactivo"}]}`))
	})

	processes, err := client.ActiveProcesses(context.Background(), "area-3")
	require.NoError(t, err)
	assert.Equal(t, "area-3", gotArea)
	assert.Equal(t, []domain.Process{{ID: "p1", Name: "Corte"}}, processes)
}

func TestClient_ActiveProcesses_EmptyArea(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for an empty area")
	})

	processes, err := client.ActiveProcesses(context.Background(), " ")
	require.NoError(t, err)
	assert.Empty(t, processes)
}

func TestClient_ActiveProcesses_Failure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := client.ActiveProcesses(context.Background(), "area-3")
	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeLookup))
}

func TestClient_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := NewClientWithHTTP(url, nil, nil)
	_, err := client.GetShift(context.Background(), "j1")
	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeTransport))
	assert.Equal(t, errors.TransportMessage, errors.GetUserMessage(err))
}

func TestClient_DeadlineExceeded(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.GetShift(ctx, "j1")
	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeTimeout))
	assert.Equal(t, "TIMEOUT", errors.GetErrorCode(err))
}
