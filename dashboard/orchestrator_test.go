package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"pantry-monitor/models"
	"pantry-monitor/utils"
)

// fakeServer serves the four read endpoints; individual endpoints can
// be forced to fail.
func fakeServer(t *testing.T, failInventory bool) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/api/statistics", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.Statistics{ActiveItems: 3, TotalScans: 9, TotalAPICost: 0.5})
	})
	mux.HandleFunc("/api/inventory", func(w http.ResponseWriter, r *http.Request) {
		if failInventory {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode([]*models.Item{
			{ID: 1, Name: "Peanut butter", Quantity: 2, LastSeen: time.Now()},
		})
	})
	mux.HandleFunc("/api/recent-scans", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]*models.Scan{
			{ID: 4, Date: time.Now(), Cost: 0.01, InputTokens: 10, OutputTokens: 5},
		})
	})
	mux.HandleFunc("/api/latest-image", func(w http.ResponseWriter, r *http.Request) {
		mod := time.Now()
		json.NewEncoder(w).Encode(models.LatestImage{Exists: true, Path: "/image/current.jpg", LastUpdated: &mod})
	})

	return httptest.NewServer(mux)
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not reached before deadline")
}

func TestRefreshPopulatesAllPanels(t *testing.T) {
	srv := fakeServer(t, false)
	defer srv.Close()

	r := NewRefresher(NewClient(srv.URL), utils.NewLogger(), time.Hour)
	r.Refresh(context.Background())

	waitFor(t, func() bool {
		stats, inv, scans, img := r.Views()
		return stats.HTML != "" && inv.HTML != "" && scans.HTML != "" && img.HTML != ""
	})

	_, inv, scans, _ := r.Views()
	if !strings.Contains(inv.HTML, "Peanut butter") {
		t.Errorf("inventory panel missing item: %s", inv.HTML)
	}
	if inv.Label != "1 item" {
		t.Errorf("inventory label: got %q, want \"1 item\"", inv.Label)
	}
	if !strings.Contains(scans.HTML, "Scan #4") {
		t.Errorf("scans panel missing row: %s", scans.HTML)
	}
}

func TestFailingEndpointDoesNotBlockOtherPanels(t *testing.T) {
	srv := fakeServer(t, true)
	defer srv.Close()

	r := NewRefresher(NewClient(srv.URL), utils.NewLogger(), time.Hour)
	r.Refresh(context.Background())

	waitFor(t, func() bool {
		stats, inv, scans, img := r.Views()
		return stats.HTML != "" && inv.HTML != "" && scans.HTML != "" && img.HTML != ""
	})

	stats, inv, scans, img := r.Views()
	if !strings.Contains(inv.HTML, "error-state") {
		t.Errorf("inventory panel should show its error state: %s", inv.HTML)
	}
	for name, view := range map[string]PanelView{"statistics": stats, "scans": scans, "image": img} {
		if strings.Contains(view.HTML, "error-state") {
			t.Errorf("%s panel should not show an error state", name)
		}
		if view.HTML == "" {
			t.Errorf("%s panel should be populated", name)
		}
	}
}

func TestOverlappingRefreshesBothComplete(t *testing.T) {
	srv := fakeServer(t, false)
	defer srv.Close()

	r := NewRefresher(NewClient(srv.URL), utils.NewLogger(), time.Hour)
	r.Refresh(context.Background())
	r.RefreshNow(context.Background())

	if !r.Spinning() {
		t.Errorf("manual refresh should start the cosmetic spin")
	}

	waitFor(t, func() bool {
		stats, inv, scans, img := r.Views()
		return stats.HTML != "" && inv.HTML != "" && scans.HTML != "" && img.HTML != ""
	})
	waitFor(t, func() bool { return !r.Spinning() })
}

func TestStaleResponseIsDiscarded(t *testing.T) {
	var p panel

	slow := p.begin()
	fast := p.begin()

	if ok := p.apply(fast, func(v *PanelView) { v.HTML = "fresh" }); !ok {
		t.Fatal("fresh response should apply")
	}
	if ok := p.apply(slow, func(v *PanelView) { v.HTML = "stale" }); ok {
		t.Error("stale response should be discarded")
	}
	if got := p.snapshot().HTML; got != "fresh" {
		t.Errorf("panel shows %q, want \"fresh\"", got)
	}
}

func TestMissingImageLeavesPanelUntouched(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/latest-image", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.LatestImage{Exists: false})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	r := NewRefresher(NewClient(srv.URL), utils.NewLogger(), time.Hour)
	r.refreshImage(context.Background())

	if _, _, _, img := r.Views(); img.HTML != "" {
		t.Errorf("image panel should stay empty when no image exists, got: %s", img.HTML)
	}
}
