package models

import "time"

// Scan is one persisted analysis run against the camera image.
type Scan struct {
	ID           int64     `json:"id"`
	Date         time.Time `json:"date"`
	ImagePath    string    `json:"-"`
	RawAnalysis  string    `json:"-"`
	Cost         float64   `json:"cost"`
	InputTokens  int       `json:"input_tokens"`
	OutputTokens int       `json:"output_tokens"`
}

// Item is a currently-tracked pantry item.
type Item struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Category      string    `json:"category"`
	Quantity      int       `json:"quantity"`
	FirstDetected time.Time `json:"first_detected"`
	LastSeen      time.Time `json:"last_seen"`
	DaysInPantry  int       `json:"days_in_pantry"`
}

// Change is one logged inventory change, tied to the scan that detected it.
type Change struct {
	ChangeType string    `json:"change_type"`
	Details    string    `json:"details"`
	DetectedAt time.Time `json:"detected_at"`
	ScanDate   time.Time `json:"scan_date"`
}

// Statistics is the aggregate snapshot served to the dashboard.
type Statistics struct {
	TotalScans      int            `json:"total_scans"`
	ActiveItems     int            `json:"active_items"`
	TotalAPICost    float64        `json:"total_api_cost"`
	ChangesLastWeek int            `json:"changes_last_week"`
	ChangeBreakdown map[string]int `json:"change_breakdown,omitempty"`
}

// LatestImage describes the state of the current camera image on disk.
type LatestImage struct {
	Exists      bool       `json:"exists"`
	Path        string     `json:"path,omitempty"`
	LastUpdated *time.Time `json:"last_updated,omitempty"`
}

// ChangeSet holds the parsed result of one vision comparison.
type ChangeSet struct {
	Added   []string
	Removed []string
	Changed []string
}

// Empty reports whether the comparison detected no changes at all.
func (c *ChangeSet) Empty() bool {
	return len(c.Added) == 0 && len(c.Removed) == 0 && len(c.Changed) == 0
}
