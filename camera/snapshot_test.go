package camera

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"pantry-monitor/utils"
)

func TestSnapshotCaptureDiscardsWarmupFrames(t *testing.T) {
	var requests int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&requests, 1)
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write([]byte("frame"))
	}))
	defer srv.Close()

	src := NewSnapshotSource(srv.URL, 3, utils.NewLogger())
	frame, err := src.Capture(context.Background())
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}

	if string(frame) != "frame" {
		t.Errorf("frame: got %q", frame)
	}
	// 3 warmup fetches plus the real one.
	if got := atomic.LoadInt64(&requests); got != 4 {
		t.Errorf("requests: got %d, want 4", got)
	}
}

func TestSnapshotCaptureRejectsNonImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html>login page</html>"))
	}))
	defer srv.Close()

	src := NewSnapshotSource(srv.URL, 0, utils.NewLogger())
	if _, err := src.Capture(context.Background()); err == nil {
		t.Fatal("expected an error for a non-image response")
	}
}

func TestSnapshotCaptureServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "camera offline", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	src := NewSnapshotSource(srv.URL, 0, utils.NewLogger())
	if _, err := src.Capture(context.Background()); err == nil {
		t.Fatal("expected an error for a 503 response")
	}
}
