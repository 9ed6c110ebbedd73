package camera

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/chromedp/chromedp"

	"pantry-monitor/utils"
)

// BrowserSource captures frames by screenshotting a camera's stream
// page in headless Chrome. Used for cameras that only expose a
// browser-viewable MJPEG/WebRTC view.
type BrowserSource struct {
	pageURL   string
	chromeBin string
	logger    *utils.Logger
}

// NewBrowserSource creates a BrowserSource for the given stream page.
func NewBrowserSource(pageURL, chromeBin string, logger *utils.Logger) *BrowserSource {
	return &BrowserSource{pageURL: pageURL, chromeBin: chromeBin, logger: logger}
}

// Capture navigates to the stream page, waits for the video to start,
// and returns a JPEG screenshot of the full viewport.
func (b *BrowserSource) Capture(ctx context.Context) ([]byte, error) {
	chromeBin := b.chromeBin
	if chromeBin == "" {
		chromeBin = findChromeBinary()
	}
	b.logger.Debug("[camera] Using browser binary: %s", chromeBin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("autoplay-policy", "no-user-gesture-required"),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	// Suppress chromedp log noise
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelBrowser()

	runCtx, cancelRun := context.WithTimeout(browserCtx, 60*time.Second)
	defer cancelRun()

	var frame []byte
	err := chromedp.Run(runCtx,
		chromedp.Navigate(b.pageURL),
		chromedp.Sleep(5*time.Second),
		chromedp.FullScreenshot(&frame, 85),
	)
	if err != nil {
		return nil, fmt.Errorf("camera: browser capture: %w", err)
	}
	if len(frame) == 0 {
		return nil, fmt.Errorf("camera: browser capture produced an empty frame")
	}
	return frame, nil
}

func findChromeBinary() string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
