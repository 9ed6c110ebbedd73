package scanner

import (
	"regexp"
	"strings"

	"pantry-monitor/models"
)

var (
	// numberedBullet matches list entries like "1." or "12."
	numberedBullet = regexp.MustCompile(`^\d+\.`)
	// bulletPrefix strips leading bullets, numbers and stray dots
	bulletPrefix = regexp.MustCompile(`^[-*•\d.]+\s*`)
)

var skipEntries = map[string]struct{}{
	"none":                {},
	"none detected":       {},
	"no changes detected": {},
}

// ParseChanges extracts structured change data from the model's
// free-text analysis. The text is expected to carry ADDED / REMOVED /
// QUANTITY CHANGED sections with one bulleted item per line, but the
// parser is tolerant of header phrasing and bullet style.
func ParseChanges(analysis string) *models.ChangeSet {
	changes := &models.ChangeSet{}

	var section *[]string
	for _, line := range strings.Split(analysis, "\n") {
		line = strings.TrimSpace(line)
		upper := strings.ToUpper(line)

		switch {
		case strings.Contains(upper, "ADDED") && strings.Contains(upper, "ITEM"):
			section = &changes.Added
			continue
		case strings.Contains(upper, "REMOVED") && strings.Contains(upper, "ITEM"):
			section = &changes.Removed
			continue
		case strings.Contains(upper, "QUANTITY") && strings.Contains(upper, "CHANGED"):
			section = &changes.Changed
			continue
		case strings.HasPrefix(line, "#") ||
			strings.HasPrefix(line, "**Summary") ||
			strings.Contains(line, "Items Unchanged"):
			section = nil
			continue
		}

		if section == nil || line == "" {
			continue
		}
		if !strings.HasPrefix(line, "-") && !strings.HasPrefix(line, "*") &&
			!strings.HasPrefix(line, "•") && !numberedBullet.MatchString(line) {
			continue
		}

		item := strings.TrimSpace(bulletPrefix.ReplaceAllString(line, ""))
		item = strings.ReplaceAll(item, "**", "")
		if item == "" {
			continue
		}
		if _, skip := skipEntries[strings.ToLower(item)]; skip {
			continue
		}
		*section = append(*section, item)
	}

	return changes
}

// ExtractItemName reduces a detailed item description to its core name.
//
//	"Germ-X hand sanitizer - 1 bottle (moisturizing original)" → "Germ-X hand sanitizer"
//	"Children's water bottle with red spout (appears to be...)" → "Children's water bottle with red spout"
func ExtractItemName(description string) string {
	item := strings.TrimSpace(description)

	for _, sep := range []string{" - ", " (", "  "} {
		if idx := strings.Index(item, sep); idx >= 0 {
			item = strings.TrimSpace(item[:idx])
		}
	}

	item = strings.TrimRight(item, ".,;:")

	if len(item) > 100 {
		item = strings.TrimSpace(item[:100])
	}
	return item
}
