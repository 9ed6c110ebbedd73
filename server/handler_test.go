package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"pantry-monitor/config"
	"pantry-monitor/models"
	"pantry-monitor/storage"
	"pantry-monitor/utils"
)

// fakeStore implements storage.InventoryReader for handler tests.
type fakeStore struct {
	items   []*models.Item
	scans   []*models.Scan
	stats   *models.Statistics
	history []*models.Change
}

func (f *fakeStore) CurrentInventory() ([]*models.Item, error) { return f.items, nil }

func (f *fakeStore) RecentScans(limit int) ([]*models.Scan, error) {
	if len(f.scans) > limit {
		return f.scans[:limit], nil
	}
	return f.scans, nil
}

func (f *fakeStore) Statistics() (*models.Statistics, error) { return f.stats, nil }

func (f *fakeStore) ItemName(id int64) (string, error) {
	for _, it := range f.items {
		if it.ID == id {
			return it.Name, nil
		}
	}
	return "", storage.ErrItemNotFound
}

func (f *fakeStore) ItemHistory(name string) ([]*models.Change, error) { return f.history, nil }

func newTestHandler(t *testing.T, store *fakeStore) (*Handler, string) {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{
		ImageDirectory:   dir,
		CurrentImage:     "current.jpg",
		CORSOrigins:      "*",
		RecentScansLimit: 10,
	}
	return NewHandler(cfg, store, utils.NewLogger()), dir
}

func get(t *testing.T, h *Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, req)
	return rec
}

func TestStatisticsEndpoint(t *testing.T) {
	h, _ := newTestHandler(t, &fakeStore{stats: &models.Statistics{
		TotalScans:      42,
		ActiveItems:     7,
		TotalAPICost:    1.25,
		ChangesLastWeek: 3,
		ChangeBreakdown: map[string]int{"added": 2, "removed": 1},
	}})

	rec := get(t, h, "/api/statistics")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	for _, key := range []string{"total_scans", "active_items", "total_api_cost", "changes_last_week"} {
		if _, ok := body[key]; !ok {
			t.Errorf("response missing %q: %v", key, body)
		}
	}
}

func TestInventoryEndpointComputesDaysInPantry(t *testing.T) {
	h, _ := newTestHandler(t, &fakeStore{items: []*models.Item{{
		ID:            1,
		Name:          "Oatmeal",
		Quantity:      2,
		FirstDetected: time.Now().Add(-73 * time.Hour),
		LastSeen:      time.Now().Add(-time.Hour),
	}}})

	rec := get(t, h, "/api/inventory")
	var items []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &items); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d items", len(items))
	}
	if items[0]["days_in_pantry"].(float64) != 3 {
		t.Errorf("days_in_pantry: got %v, want 3", items[0]["days_in_pantry"])
	}
	if items[0]["category"] != "Uncategorized" {
		t.Errorf("empty category should default to Uncategorized, got %v", items[0]["category"])
	}
}

func TestInventoryEndpointEmptyIsArray(t *testing.T) {
	h, _ := newTestHandler(t, &fakeStore{})

	rec := get(t, h, "/api/inventory")
	if got := rec.Body.String(); got != "[]\n" {
		t.Errorf("empty inventory should encode as [], got %q", got)
	}
}

func TestRecentScansShape(t *testing.T) {
	h, _ := newTestHandler(t, &fakeStore{scans: []*models.Scan{{
		ID:           5,
		Date:         time.Now(),
		Cost:         0.012345,
		InputTokens:  100,
		OutputTokens: 50,
	}}})

	rec := get(t, h, "/api/recent-scans")
	var scans []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &scans); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	for _, key := range []string{"id", "date", "cost", "input_tokens", "output_tokens"} {
		if _, ok := scans[0][key]; !ok {
			t.Errorf("scan missing %q: %v", key, scans[0])
		}
	}
}

func TestLatestImageMissing(t *testing.T) {
	h, _ := newTestHandler(t, &fakeStore{})

	rec := get(t, h, "/api/latest-image")
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body["exists"] != false {
		t.Errorf("exists: got %v, want false", body["exists"])
	}
	if _, ok := body["last_updated"]; ok {
		t.Errorf("missing image should not report last_updated")
	}
}

func TestLatestImagePresent(t *testing.T) {
	h, dir := newTestHandler(t, &fakeStore{})
	if err := os.WriteFile(filepath.Join(dir, "current.jpg"), []byte("jpeg"), 0644); err != nil {
		t.Fatal(err)
	}

	rec := get(t, h, "/api/latest-image")
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body["exists"] != true {
		t.Fatalf("exists: got %v, want true", body["exists"])
	}
	if body["path"] != "/image/current.jpg" {
		t.Errorf("path: got %v", body["path"])
	}
	if _, ok := body["last_updated"]; !ok {
		t.Errorf("response missing last_updated")
	}
}

func TestItemHistoryNotFound(t *testing.T) {
	h, _ := newTestHandler(t, &fakeStore{})

	rec := get(t, h, "/api/item-history/999")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rec.Code)
	}
}

func TestItemHistoryFound(t *testing.T) {
	h, _ := newTestHandler(t, &fakeStore{
		items: []*models.Item{{ID: 3, Name: "Honey"}},
		history: []*models.Change{{
			ChangeType: "added",
			Details:    "Initial scan: Honey jar",
			DetectedAt: time.Now(),
			ScanDate:   time.Now(),
		}},
	})

	rec := get(t, h, "/api/item-history/3")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	var history []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &history); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(history) != 1 || history[0]["change_type"] != "added" {
		t.Errorf("history: got %v", history)
	}
}

func TestImageServing(t *testing.T) {
	h, dir := newTestHandler(t, &fakeStore{})
	if err := os.WriteFile(filepath.Join(dir, "current.jpg"), []byte("jpeg-bytes"), 0644); err != nil {
		t.Fatal(err)
	}

	rec := get(t, h, "/image/current.jpg")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	if rec.Body.String() != "jpeg-bytes" {
		t.Errorf("body: got %q", rec.Body.String())
	}

	rec = get(t, h, "/image/missing.jpg")
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing image: got %d, want 404", rec.Code)
	}
}
