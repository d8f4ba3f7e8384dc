package generator

import (
	"fmt"
	"time"

	"github.com/dancove/ministry-rota/internal/config"
	"github.com/dancove/ministry-rota/pkg/core/model"
)

// CoverageGap is one configured occurrence the snapshot has no slot for
type CoverageGap struct {
	Label string
	Date  string
}

// CoverageCheck compares a snapshot against the configured service patterns
// over a window and reports occurrences with no matching slot. Useful after
// an operator has deleted or hand-edited a draft far enough that a generated
// occurrence disappeared.
func CoverageCheck(snapshot model.ScheduleSnapshot, patterns []config.ServicePattern, start, end time.Time) ([]CoverageGap, error) {
	present := map[string]bool{}
	for _, slot := range snapshot.Slots {
		present[slot.Label+"|"+slot.Date] = true
	}

	gaps := []CoverageGap{}
	for i, pattern := range patterns {
		occurrences, err := Occurrences(pattern, start, end)
		if err != nil {
			return nil, fmt.Errorf("failed to expand pattern %d (%s): %w", i, pattern.Label, err)
		}
		for _, date := range occurrences {
			if !present[pattern.Label+"|"+date] {
				gaps = append(gaps, CoverageGap{Label: pattern.Label, Date: date})
			}
		}
	}
	return gaps, nil
}
