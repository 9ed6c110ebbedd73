// Package scanner drives the capture → analyze → persist cycle.
package scanner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"pantry-monitor/camera"
	"pantry-monitor/config"
	"pantry-monitor/models"
	"pantry-monitor/storage"
	"pantry-monitor/utils"
	"pantry-monitor/vision"
)

// Scanner captures a frame, compares it against the previous one and
// persists the detected inventory changes.
type Scanner struct {
	cfg      *config.Config
	logger   *utils.Logger
	source   camera.Source
	analyzer vision.Analyzer
	store    storage.ScanWriter // nil when running without a database
	retry    *utils.RetryConfig
}

// New creates a ready-to-use Scanner. store may be nil.
func New(cfg *config.Config, logger *utils.Logger, source camera.Source, analyzer vision.Analyzer, store storage.ScanWriter) *Scanner {
	return &Scanner{
		cfg:      cfg,
		logger:   logger,
		source:   source,
		analyzer: analyzer,
		store:    store,
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.CaptureRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
	}
}

// Run executes one scan cycle: on the first run it stores a baseline
// image (and records the initial inventory when the database is empty),
// on later runs it compares today's frame against the previous one.
func (s *Scanner) Run(ctx context.Context) error {
	s.logger.Info("[scanner] Scan starting")

	if err := os.MkdirAll(s.cfg.ImageDirectory, 0755); err != nil {
		return fmt.Errorf("scanner: create image dir: %w", err)
	}

	previous, err := s.loadImage(s.cfg.PreviousImage)
	if err != nil {
		return err
	}

	current, err := s.capture(ctx)
	if err != nil {
		return err
	}
	if err := s.saveImage(s.cfg.CurrentImage, current); err != nil {
		return err
	}

	if previous == nil {
		return s.firstRun(ctx, current)
	}

	result, err := s.analyzer.CompareFrames(ctx, previous, current)
	if err != nil {
		return fmt.Errorf("scanner: compare frames: %w", err)
	}
	s.logger.Info("[scanner] Analysis complete — %d in / %d out tokens, $%.6f",
		result.Usage.InputTokens, result.Usage.OutputTokens, result.Usage.CostUSD)

	archiveName := fmt.Sprintf("pantry_%s.jpg", time.Now().Format("20060102_150405"))
	if err := s.saveImage(archiveName, current); err != nil {
		return err
	}

	changes := ParseChanges(result.Analysis)
	s.persist(archiveName, result, changes)

	s.cleanupOldImages()

	// Rotate current → previous for the next comparison.
	if err := s.saveImage(s.cfg.PreviousImage, current); err != nil {
		return err
	}

	s.logger.Info("[scanner] Scan complete — %d added, %d removed, %d changed",
		len(changes.Added), len(changes.Removed), len(changes.Changed))
	return nil
}

// TestCamera captures a single frame and writes it to test_capture.jpg
// so the camera angle can be verified.
func (s *Scanner) TestCamera(ctx context.Context) error {
	if err := os.MkdirAll(s.cfg.ImageDirectory, 0755); err != nil {
		return fmt.Errorf("scanner: create image dir: %w", err)
	}
	frame, err := s.capture(ctx)
	if err != nil {
		return err
	}
	if err := s.saveImage("test_capture.jpg", frame); err != nil {
		return err
	}
	s.logger.Info("[scanner] Camera test OK — open %s to verify the angle",
		filepath.Join(s.cfg.ImageDirectory, "test_capture.jpg"))
	return nil
}

func (s *Scanner) firstRun(ctx context.Context, current []byte) error {
	s.logger.Info("[scanner] No previous image found — storing baseline")

	if err := s.saveImage(s.cfg.PreviousImage, current); err != nil {
		return err
	}

	if s.store == nil {
		return nil
	}
	stats, err := s.store.Statistics()
	if err != nil {
		return fmt.Errorf("scanner: read statistics: %w", err)
	}
	if stats.ActiveItems > 0 || stats.TotalScans > 0 {
		return nil
	}

	s.logger.Info("[scanner] First-time setup detected — scanning initial inventory")
	items, _, err := s.analyzer.InitialInventory(ctx, current)
	if err != nil {
		return fmt.Errorf("scanner: initial inventory: %w", err)
	}
	if len(items) == 0 {
		s.logger.Warn("[scanner] Initial inventory scan found no items")
		return nil
	}

	scanID, err := s.store.SaveScan("initial_scan", "Initial inventory scan", 0, 0, 0)
	if err != nil {
		return fmt.Errorf("scanner: save initial scan: %w", err)
	}

	for _, item := range items {
		name := ExtractItemName(item)
		if _, err := s.store.AddItem(name, ""); err != nil {
			s.logger.Error("[scanner] Failed to add %q: %v", name, err)
			continue
		}
		if err := s.store.LogChange(scanID, name, "added", "Initial scan: "+item); err != nil {
			s.logger.Error("[scanner] Failed to log %q: %v", name, err)
		}
	}

	s.logger.Info("[scanner] Baseline saved with %d initial items", len(items))
	return nil
}

// persist writes the scan record and its detected changes. Database
// failures are logged rather than failing the scan, so a flaky
// database never breaks the image rotation.
func (s *Scanner) persist(imagePath string, result *vision.Result, changes *models.ChangeSet) {
	if s.store == nil {
		return
	}

	scanID, err := s.store.SaveScan(imagePath, result.Analysis,
		result.Usage.CostUSD, result.Usage.InputTokens, result.Usage.OutputTokens)
	if err != nil {
		s.logger.Error("[scanner] Failed to save scan record: %v", err)
		return
	}

	for _, item := range changes.Added {
		name := ExtractItemName(item)
		if _, err := s.store.AddItem(name, ""); err != nil {
			s.logger.Error("[scanner] Failed to add %q: %v", name, err)
			continue
		}
		if err := s.store.LogChange(scanID, name, "added", item); err != nil {
			s.logger.Error("[scanner] Failed to log addition of %q: %v", name, err)
		}
	}

	for _, item := range changes.Removed {
		name := ExtractItemName(item)
		matched, err := s.store.RemoveItem(name)
		if err != nil {
			s.logger.Error("[scanner] Failed to remove %q: %v", name, err)
			continue
		}
		if !matched {
			s.logger.Warn("[scanner] Item not found for removal: %q", name)
		}
		if err := s.store.LogChange(scanID, name, "removed", item); err != nil {
			s.logger.Error("[scanner] Failed to log removal of %q: %v", name, err)
		}
	}

	for _, item := range changes.Changed {
		name := ExtractItemName(item)
		if err := s.store.LogChange(scanID, name, "quantity_changed", item); err != nil {
			s.logger.Error("[scanner] Failed to log quantity change of %q: %v", name, err)
		}
	}
}

func (s *Scanner) capture(ctx context.Context) ([]byte, error) {
	var frame []byte
	err := s.retry.Do("camera capture", func() error {
		var err error
		frame, err = s.source.Capture(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("[scanner] Image captured (%s)", humanize.Bytes(uint64(len(frame))))
	return frame, nil
}

func (s *Scanner) saveImage(name string, data []byte) error {
	path := filepath.Join(s.cfg.ImageDirectory, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("scanner: save %s: %w", name, err)
	}
	return nil
}

// loadImage returns nil with no error when the file does not exist.
func (s *Scanner) loadImage(name string) ([]byte, error) {
	path := filepath.Join(s.cfg.ImageDirectory, name)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanner: load %s: %w", name, err)
	}
	return data, nil
}

// cleanupOldImages deletes archived frames, keeping only the current,
// previous and test images.
func (s *Scanner) cleanupOldImages() {
	keep := map[string]struct{}{
		s.cfg.CurrentImage:  {},
		s.cfg.PreviousImage: {},
		"test_capture.jpg":  {},
	}

	entries, err := os.ReadDir(s.cfg.ImageDirectory)
	if err != nil {
		s.logger.Warn("[scanner] Cleanup failed: %v", err)
		return
	}

	deleted := 0
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".jpg") {
			continue
		}
		if _, ok := keep[e.Name()]; ok {
			continue
		}
		if err := os.Remove(filepath.Join(s.cfg.ImageDirectory, e.Name())); err != nil {
			s.logger.Warn("[scanner] Could not delete %s: %v", e.Name(), err)
			continue
		}
		deleted++
	}
	if deleted > 0 {
		s.logger.Debug("[scanner] Cleaned up %d archived image(s)", deleted)
	}
}
