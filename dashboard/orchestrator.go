package dashboard

import (
	"context"
	"sync"
	"time"

	"pantry-monitor/utils"
)

// spinDuration is how long the manual-refresh control stays in its
// cosmetic rotation after being triggered.
const spinDuration = 600 * time.Millisecond

// Refresher drives periodic and on-demand refresh of all four panels.
// Each refresh fans out four independent fetches; panels resolve and
// render independently, and a failure in one never blocks the others.
type Refresher struct {
	client   *Client
	logger   *utils.Logger
	interval time.Duration
	now      func() time.Time

	statistics panel
	inventory  panel
	scans      panel
	image      panel

	mu        sync.Mutex
	spinUntil time.Time
}

// NewRefresher creates a Refresher polling at the given interval.
func NewRefresher(client *Client, logger *utils.Logger, interval time.Duration) *Refresher {
	return &Refresher{
		client:   client,
		logger:   logger,
		interval: interval,
		now:      time.Now,
	}
}

// Start refreshes immediately and then on a fixed interval until the
// context is cancelled.
func (r *Refresher) Start(ctx context.Context) {
	r.Refresh(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Refresh(ctx)
		}
	}
}

// Refresh issues all four fetches concurrently. Overlapping refreshes
// are allowed; per-panel request tokens ensure only the newest response
// is applied.
func (r *Refresher) Refresh(ctx context.Context) {
	go r.refreshStatistics(ctx)
	go r.refreshInventory(ctx)
	go r.refreshScans(ctx)
	go r.refreshImage(ctx)
}

// RefreshNow triggers a manual refresh and starts the cosmetic spin on
// the refresh control.
func (r *Refresher) RefreshNow(ctx context.Context) {
	r.mu.Lock()
	r.spinUntil = r.now().Add(spinDuration)
	r.mu.Unlock()
	r.Refresh(ctx)
}

// Spinning reports whether the refresh control is still in its
// cosmetic rotation.
func (r *Refresher) Spinning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.now().Before(r.spinUntil)
}

// Views returns a snapshot of all four panel views.
func (r *Refresher) Views() (statistics, inventory, scans, image PanelView) {
	return r.statistics.snapshot(), r.inventory.snapshot(),
		r.scans.snapshot(), r.image.snapshot()
}

func (r *Refresher) refreshStatistics(ctx context.Context) {
	token := r.statistics.begin()
	stats, err := r.client.FetchStatistics(ctx)
	if err != nil {
		// Stale values stay on screen for this panel.
		r.logger.Error("[dashboard] Statistics refresh failed: %v", err)
		return
	}
	r.statistics.apply(token, func(v *PanelView) {
		v.HTML = RenderStatistics(stats)
		v.UpdatedAt = r.now()
	})
}

func (r *Refresher) refreshInventory(ctx context.Context) {
	token := r.inventory.begin()
	items, err := r.client.FetchInventory(ctx)
	if err != nil {
		r.logger.Error("[dashboard] Inventory refresh failed: %v", err)
		r.inventory.apply(token, func(v *PanelView) {
			v.HTML = RenderInventoryError()
			v.UpdatedAt = r.now()
		})
		return
	}
	listHTML, count := RenderInventory(items, r.now())
	r.inventory.apply(token, func(v *PanelView) {
		v.HTML = listHTML
		v.Label = count
		v.UpdatedAt = r.now()
	})
}

func (r *Refresher) refreshScans(ctx context.Context) {
	token := r.scans.begin()
	scans, err := r.client.FetchRecentScans(ctx)
	if err != nil {
		// Log only; this panel keeps whatever it last showed.
		r.logger.Error("[dashboard] Recent-scans refresh failed: %v", err)
		return
	}
	listHTML, header := RenderScans(scans, r.now())
	r.scans.apply(token, func(v *PanelView) {
		v.HTML = listHTML
		v.Label = header
		v.UpdatedAt = r.now()
	})
}

func (r *Refresher) refreshImage(ctx context.Context) {
	token := r.image.begin()
	info, err := r.client.FetchLatestImage(ctx)
	if err != nil {
		r.logger.Error("[dashboard] Latest-image refresh failed: %v", err)
		return
	}
	if !info.Exists {
		// No image yet: the previously shown image, if any, stays.
		return
	}
	url := r.client.ImageURL(r.now())
	r.image.apply(token, func(v *PanelView) {
		v.HTML = RenderImagePanel(info, url, r.now())
		v.UpdatedAt = r.now()
	})
}
