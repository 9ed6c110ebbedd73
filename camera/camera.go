// Package camera provides capture sources for the pantry webcam.
//
// Two kinds of camera are supported: IP cameras that expose a plain
// HTTP snapshot endpoint returning a JPEG, and cameras whose stream is
// only viewable through a browser page, captured via a headless Chrome
// screenshot.
package camera

import (
	"context"
	"fmt"

	"pantry-monitor/config"
	"pantry-monitor/utils"
)

// Source captures a single JPEG frame from a camera.
type Source interface {
	Capture(ctx context.Context) ([]byte, error)
}

// New builds the capture source selected by the configuration.
func New(cfg *config.Config, logger *utils.Logger) (Source, error) {
	switch cfg.CameraSource {
	case "snapshot":
		return NewSnapshotSource(cfg.SnapshotURL, cfg.WarmupFrames, logger), nil
	case "browser":
		if cfg.CameraPageURL == "" {
			return nil, fmt.Errorf("camera: CAMERA_PAGE_URL is required for the browser source")
		}
		return NewBrowserSource(cfg.CameraPageURL, cfg.ChromeBin, logger), nil
	default:
		return nil, fmt.Errorf("camera: unknown source %q (want snapshot or browser)", cfg.CameraSource)
	}
}
