package dashboard

import (
	"fmt"
	"html"
	"sort"
	"strings"
	"time"

	"pantry-monitor/models"
)

const maxNameLen = 60
const maxScanRows = 5

// TruncateName caps an item name at max runes, appending an ellipsis
// only when something was cut.
func TruncateName(name string, max int) string {
	runes := []rune(name)
	if len(runes) <= max {
		return name
	}
	return string(runes[:max]) + "…"
}

// ItemCountLabel returns the item-count text with correct pluralization.
func ItemCountLabel(n int) string {
	if n == 1 {
		return "1 item"
	}
	return fmt.Sprintf("%d items", n)
}

// SortItems returns a copy of items ordered by last-seen descending.
// Server-provided order is ignored.
func SortItems(items []*models.Item) []*models.Item {
	sorted := make([]*models.Item, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].LastSeen.After(sorted[j].LastSeen)
	})
	return sorted
}

// MatchesSearch reports whether an item name matches a search term,
// case-insensitively. An empty term matches everything.
func MatchesSearch(name, term string) bool {
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(name), strings.ToLower(term))
}

// RenderStatistics renders the statistics panel body. Cost is shown to
// four decimal places with a leading currency symbol.
func RenderStatistics(stats *models.Statistics) string {
	var b strings.Builder
	b.WriteString(`<div class="stats-grid">`)
	fmt.Fprintf(&b, `<div class="stat-card"><div class="stat-value" id="stat-active-items">%d</div><div class="stat-label">Active Items</div></div>`, stats.ActiveItems)
	fmt.Fprintf(&b, `<div class="stat-card"><div class="stat-value" id="stat-total-scans">%d</div><div class="stat-label">Total Scans</div></div>`, stats.TotalScans)
	fmt.Fprintf(&b, `<div class="stat-card"><div class="stat-value" id="stat-changes-week">%d</div><div class="stat-label">Changes This Week</div></div>`, stats.ChangesLastWeek)
	fmt.Fprintf(&b, `<div class="stat-card"><div class="stat-value" id="stat-api-cost">$%.4f</div><div class="stat-label">Total API Cost</div></div>`, stats.TotalAPICost)
	b.WriteString(`</div>`)
	return b.String()
}

// RenderInventory renders the inventory list body and its count label.
// Items are re-sorted by last-seen descending regardless of input
// order; names are truncated at 60 characters.
func RenderInventory(items []*models.Item, now time.Time) (listHTML, countLabel string) {
	countLabel = ItemCountLabel(len(items))

	if len(items) == 0 {
		return `<div class="empty-state">No items detected yet. Waiting for the first scan…</div>`, countLabel
	}

	var b strings.Builder
	for _, it := range SortItems(items) {
		name := TruncateName(it.Name, maxNameLen)
		fmt.Fprintf(&b,
			`<div class="inventory-item" data-id="%d" data-name="%s" onclick="itemDetail(%d)">`+
				`<div class="item-info"><div class="item-name">%s</div>`+
				`<div class="item-meta">%s · %d days in pantry</div></div>`+
				`<div class="item-quantity">%d</div></div>`,
			it.ID,
			html.EscapeString(strings.ToLower(it.Name)),
			it.ID,
			html.EscapeString(name),
			FormatDaysAgo(it.LastSeen, now),
			it.DaysInPantry,
			it.Quantity,
		)
	}
	return b.String(), countLabel
}

// RenderInventoryError renders the inventory panel's error state.
func RenderInventoryError() string {
	return `<div class="error-state">Failed to load inventory</div>`
}

// RenderScans renders the recent-scans body and the last-scan header.
// At most five rows are shown; the header reflects the first (newest)
// record.
func RenderScans(scans []*models.Scan, now time.Time) (listHTML, header string) {
	if len(scans) == 0 {
		return `<div class="empty-state">No scans recorded yet</div>`, ""
	}

	header = FormatDateTime(scans[0].Date, now)

	shown := scans
	if len(shown) > maxScanRows {
		shown = shown[:maxScanRows]
	}

	var b strings.Builder
	for _, sc := range shown {
		fmt.Fprintf(&b,
			`<div class="activity-item"><div class="activity-info">`+
				`<div class="activity-title">Scan #%d</div>`+
				`<div class="activity-time">%s</div></div>`+
				`<div class="activity-cost">$%.6f · %d tokens</div></div>`,
			sc.ID,
			FormatDateTime(sc.Date, now),
			sc.Cost,
			sc.InputTokens+sc.OutputTokens,
		)
	}
	return b.String(), header
}

// RenderImagePanel renders the latest-image body. imageURL must already
// carry the cache-busting parameter.
func RenderImagePanel(info *models.LatestImage, imageURL string, now time.Time) string {
	caption := ""
	if info.LastUpdated != nil {
		caption = "Updated " + FormatTimeAgo(*info.LastUpdated, now)
	}
	return fmt.Sprintf(
		`<img id="pantry-image" src="%s" alt="Latest pantry image" onclick="openFullscreen()">`+
			`<div class="image-caption">%s</div>`,
		html.EscapeString(imageURL), html.EscapeString(caption))
}
