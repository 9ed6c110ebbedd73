package storage

import "pantry-monitor/models"

// InventoryReader is the read surface consumed by the API server and
// the terminal report.
type InventoryReader interface {
	CurrentInventory() ([]*models.Item, error)
	RecentScans(limit int) ([]*models.Scan, error)
	Statistics() (*models.Statistics, error)
	ItemName(itemID int64) (string, error)
	ItemHistory(itemName string) ([]*models.Change, error)
}

// ScanWriter is the write surface consumed by the scanner.
type ScanWriter interface {
	SaveScan(imagePath, rawAnalysis string, cost float64, inputTokens, outputTokens int) (int64, error)
	AddItem(itemName, category string) (int64, error)
	RemoveItem(itemName string) (bool, error)
	LogChange(scanID int64, itemName, changeType, details string) error
	Statistics() (*models.Statistics, error)
}
