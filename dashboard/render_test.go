package dashboard

import (
	"strings"
	"testing"
	"time"

	"pantry-monitor/models"
)

func item(id int64, name string, lastSeen time.Time) *models.Item {
	return &models.Item{ID: id, Name: name, Quantity: 1, LastSeen: lastSeen}
}

func TestSortItemsDescendingByLastSeen(t *testing.T) {
	items := []*models.Item{
		item(1, "oldest", now.Add(-72*time.Hour)),
		item(2, "newest", now.Add(-1*time.Hour)),
		item(3, "middle", now.Add(-24*time.Hour)),
	}

	sorted := SortItems(items)

	wantOrder := []string{"newest", "middle", "oldest"}
	for i, want := range wantOrder {
		if sorted[i].Name != want {
			t.Errorf("position %d: got %q, want %q", i, sorted[i].Name, want)
		}
	}
	// Input order is untouched.
	if items[0].Name != "oldest" {
		t.Errorf("input slice was mutated")
	}
}

func TestRenderInventorySortsRegardlessOfInputOrder(t *testing.T) {
	items := []*models.Item{
		item(1, "stale crackers", now.Add(-96*time.Hour)),
		item(2, "fresh milk", now.Add(-time.Minute)),
	}

	listHTML, _ := RenderInventory(items, now)

	freshIdx := strings.Index(listHTML, "fresh milk")
	staleIdx := strings.Index(listHTML, "stale crackers")
	if freshIdx < 0 || staleIdx < 0 {
		t.Fatalf("rendered list missing items: %s", listHTML)
	}
	if freshIdx > staleIdx {
		t.Errorf("most recently seen item should render first")
	}
}

func TestRenderInventoryEmptyState(t *testing.T) {
	listHTML, count := RenderInventory(nil, now)

	if count != "0 items" {
		t.Errorf("count label: got %q, want \"0 items\"", count)
	}
	if !strings.Contains(listHTML, "empty-state") {
		t.Errorf("empty inventory should render the empty state, got: %s", listHTML)
	}
}

func TestItemCountLabelPluralization(t *testing.T) {
	cases := []struct {
		n    int
		want string
	}{
		{0, "0 items"},
		{1, "1 item"},
		{2, "2 items"},
		{17, "17 items"},
	}
	for _, c := range cases {
		if got := ItemCountLabel(c.n); got != c.want {
			t.Errorf("ItemCountLabel(%d): got %q, want %q", c.n, got, c.want)
		}
	}
}

func TestTruncateName(t *testing.T) {
	name60 := strings.Repeat("a", 60)
	name61 := strings.Repeat("b", 61)

	if got := TruncateName(name60, 60); got != name60 {
		t.Errorf("60-char name should render unchanged, got %q", got)
	}

	got := TruncateName(name61, 60)
	want := strings.Repeat("b", 60) + "…"
	if got != want {
		t.Errorf("61-char name: got %q, want %q", got, want)
	}
}

func TestRenderScansCapsAtFiveRows(t *testing.T) {
	var scans []*models.Scan
	for i := 0; i < 20; i++ {
		scans = append(scans, &models.Scan{
			ID:   int64(100 - i),
			Date: now.Add(-time.Duration(i) * time.Hour),
		})
	}

	listHTML, header := RenderScans(scans, now)

	if got := strings.Count(listHTML, "activity-item"); got != 5 {
		t.Errorf("rendered %d rows, want 5", got)
	}
	if header != "Just now" {
		t.Errorf("header should reflect the first record, got %q", header)
	}
	if !strings.Contains(listHTML, "Scan #100") {
		t.Errorf("newest scan missing from rendered rows")
	}
	if strings.Contains(listHTML, "Scan #94") {
		t.Errorf("sixth scan should not be rendered")
	}
}

func TestRenderScansEmptyState(t *testing.T) {
	listHTML, header := RenderScans(nil, now)
	if !strings.Contains(listHTML, "empty-state") {
		t.Errorf("empty scans should render the empty state")
	}
	if header != "" {
		t.Errorf("empty scans should leave the header blank, got %q", header)
	}
}

func TestRenderScansCostAndTokens(t *testing.T) {
	scans := []*models.Scan{{
		ID:           7,
		Date:         now.Add(-2 * time.Minute),
		Cost:         0.012345,
		InputTokens:  1000,
		OutputTokens: 234,
	}}

	listHTML, _ := RenderScans(scans, now)

	if !strings.Contains(listHTML, "$0.012345") {
		t.Errorf("cost should be formatted to 6 decimal places: %s", listHTML)
	}
	if !strings.Contains(listHTML, "1234 tokens") {
		t.Errorf("token count should be input+output summed: %s", listHTML)
	}
}

func TestRenderStatisticsCostFormat(t *testing.T) {
	html := RenderStatistics(&models.Statistics{
		ActiveItems:     12,
		TotalScans:      34,
		ChangesLastWeek: 5,
		TotalAPICost:    1.23456,
	})

	if !strings.Contains(html, "$1.2346") {
		t.Errorf("cost should show 4 decimal places with currency symbol: %s", html)
	}
	if !strings.Contains(html, ">12<") || !strings.Contains(html, ">34<") {
		t.Errorf("counts missing from statistics panel: %s", html)
	}
}

func TestMatchesSearch(t *testing.T) {
	cases := []struct {
		name, term string
		want       bool
	}{
		{"Kellogg's Froot Loops", "", true},
		{"Kellogg's Froot Loops", "froot", true},
		{"Kellogg's Froot Loops", "FROOT", true},
		{"Kellogg's Froot Loops", "oatmeal", false},
	}
	for _, c := range cases {
		if got := MatchesSearch(c.name, c.term); got != c.want {
			t.Errorf("MatchesSearch(%q, %q): got %v, want %v", c.name, c.term, got, c.want)
		}
	}
}
