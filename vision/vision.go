// Package vision analyzes pantry images with a vision AI model.
package vision

import "context"

// Usage contains token usage and cost information for one API call.
type Usage struct {
	InputTokens  int
	OutputTokens int
	CostUSD      float64
}

// Result is the raw analysis text plus its usage accounting.
type Result struct {
	Analysis string
	Usage    Usage
}

// Analyzer can compare pantry frames and inventory a single frame.
type Analyzer interface {
	// CompareFrames takes yesterday's and today's JPEG frames and
	// returns the model's change analysis.
	CompareFrames(ctx context.Context, previous, current []byte) (*Result, error)

	// InitialInventory lists all items visible in a single frame,
	// one per line, for first-run setup.
	InitialInventory(ctx context.Context, frame []byte) ([]string, *Result, error)
}
