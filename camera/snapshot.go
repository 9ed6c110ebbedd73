package camera

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"pantry-monitor/utils"
)

// SnapshotSource captures frames from an IP camera snapshot endpoint.
type SnapshotSource struct {
	url          string
	warmupFrames int
	client       *http.Client
	logger       *utils.Logger
}

// NewSnapshotSource creates a SnapshotSource for the given snapshot URL.
func NewSnapshotSource(url string, warmupFrames int, logger *utils.Logger) *SnapshotSource {
	return &SnapshotSource{
		url:          url,
		warmupFrames: warmupFrames,
		client:       &http.Client{Timeout: 15 * time.Second},
		logger:       logger,
	}
}

// Capture fetches one frame. A handful of warmup frames are fetched and
// discarded first so the camera's auto-exposure can settle.
func (s *SnapshotSource) Capture(ctx context.Context) ([]byte, error) {
	for i := 0; i < s.warmupFrames; i++ {
		if _, err := s.fetch(ctx); err != nil {
			return nil, fmt.Errorf("camera: warmup frame %d: %w", i+1, err)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(100 * time.Millisecond):
		}
	}

	frame, err := s.fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("camera: capture frame: %w", err)
	}
	return frame, nil
}

func (s *SnapshotSource) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("snapshot endpoint returned %s", resp.Status)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "image/") {
		return nil, fmt.Errorf("snapshot endpoint returned %q, not an image", ct)
	}

	return io.ReadAll(resp.Body)
}
