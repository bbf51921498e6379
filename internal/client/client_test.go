package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meldify/pkg/models"
)

func fastOptions() Options {
	return Options{
		HostID:       "edit-bay-1",
		RetryMax:     2,
		RetryWaitMin: time.Millisecond,
		RetryWaitMax: 5 * time.Millisecond,
	}
}

func TestReportCompletion(t *testing.T) {
	var got models.ExportEvent
	var hostHeader string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/exports/events", r.URL.Path)
		hostHeader = r.Header.Get("X-Host-ID")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewReportClient(srv.URL+"/", fastOptions())
	ev := models.ExportEvent{
		JobID:             "j1",
		Status:            models.StatusSuccess,
		State:             models.JobCompleted,
		OutputPath:        "/out/A001.mp4",
		OriginalInputPath: "/in/A001.R3D",
	}
	require.NoError(t, c.ReportCompletion(context.Background(), ev))
	assert.Equal(t, ev.JobID, got.JobID)
	assert.Equal(t, ev.OutputPath, got.OutputPath)
	assert.Equal(t, "edit-bay-1", hostHeader)
}

func TestSendHeartbeat_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/exports/heartbeat", r.URL.Path)
		if calls.Add(1) < 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewReportClient(srv.URL, fastOptions())
	err := c.SendHeartbeat(context.Background(), models.Heartbeat{Status: models.HostBusy, ActiveJobs: 2})
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestReportCompletion_ClientError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewReportClient(srv.URL, fastOptions())
	err := c.ReportCompletion(context.Background(), models.ExportEvent{JobID: "j2"})
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadRequest, statusErr.StatusCode)
	assert.Equal(t, "/api/v1/exports/events", statusErr.Path)
}
