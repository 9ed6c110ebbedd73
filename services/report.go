package services

import (
	"fmt"
	"strings"

	"pantry-monitor/models"
	"pantry-monitor/storage"
	"pantry-monitor/utils"
)

// ReportService renders the current pantry state to the terminal.
type ReportService struct {
	store  storage.InventoryReader
	logger *utils.Logger
}

// NewReportService creates a ReportService reading from the given store.
func NewReportService(store storage.InventoryReader, logger *utils.Logger) *ReportService {
	return &ReportService{store: store, logger: logger}
}

// Report holds everything the terminal view displays.
type Report struct {
	Items []*models.Item
	Scans []*models.Scan
	Stats *models.Statistics
}

// Generate gathers inventory, recent scans and statistics.
func (s *ReportService) Generate() (*Report, error) {
	items, err := s.store.CurrentInventory()
	if err != nil {
		return nil, fmt.Errorf("report: inventory: %w", err)
	}
	scans, err := s.store.RecentScans(5)
	if err != nil {
		return nil, fmt.Errorf("report: scans: %w", err)
	}
	stats, err := s.store.Statistics()
	if err != nil {
		return nil, fmt.Errorf("report: statistics: %w", err)
	}
	return &Report{Items: items, Scans: scans, Stats: stats}, nil
}

// Print writes the report to stdout.
func (s *ReportService) Print(r *Report) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Printf("\n\033[1;35m%s\033[0m\n", sep)
	fmt.Printf("\033[1;35m  📦 CURRENT PANTRY INVENTORY\033[0m\n")
	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)

	if len(r.Items) == 0 {
		fmt.Printf("  No items in inventory yet.\n")
	} else {
		fmt.Printf("  \033[1m%d\033[0m active item(s):\n\n", len(r.Items))
		for _, it := range r.Items {
			fmt.Printf("  • \033[1m%s\033[0m\n", truncate(it.Name, 50))
			fmt.Printf("    Quantity   : %d\n", it.Quantity)
			fmt.Printf("    First seen : %s\n", it.FirstDetected.Format("2006-01-02 15:04"))
			fmt.Printf("    Last seen  : %s\n", it.LastSeen.Format("2006-01-02 15:04"))
			fmt.Println()
		}
	}

	fmt.Printf("\033[1;33m  Recent Scans\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if len(r.Scans) == 0 {
		fmt.Printf("  No scans yet\n")
	} else {
		for _, sc := range r.Scans {
			fmt.Printf("  Scan #%d — %s\n", sc.ID, sc.Date.Format("2006-01-02 15:04:05"))
			fmt.Printf("    Cost: \033[1;32m$%.6f\033[0m | Tokens: %d in, %d out\n",
				sc.Cost, sc.InputTokens, sc.OutputTokens)
		}
	}
	fmt.Println()

	fmt.Printf("\033[1;33m  Statistics\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Total scans       : \033[1m%d\033[0m\n", r.Stats.TotalScans)
	fmt.Printf("  Active items      : \033[1m%d\033[0m\n", r.Stats.ActiveItems)
	fmt.Printf("  Total API cost    : \033[1;32m$%.6f\033[0m\n", r.Stats.TotalAPICost)
	fmt.Printf("  Changes this week : \033[1m%d\033[0m\n", r.Stats.ChangesLastWeek)

	fmt.Printf("\n\033[1;35m%s\033[0m\n\n", sep)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
