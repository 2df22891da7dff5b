package store

import (
	"errors"
	"fmt"

	"github.com/lawnchairsociety/dungeonbuilder/internal/logger"
)

// CopyResult counts the outcome of CopyLayouts.
type CopyResult struct {
	Copied  int
	Skipped int // Already present in the destination
}

// CopyLayouts copies every layout in src into dst, oldest first. Layouts
// whose fingerprint already exists in dst are skipped, so the copy can be
// rerun after a partial failure. With dryRun set nothing is written and
// every layout is counted as copied.
func CopyLayouts(dst, src *Store, dryRun bool) (CopyResult, error) {
	var result CopyResult

	summaries, err := src.ListLayouts(0)
	if err != nil {
		return result, err
	}

	for i := len(summaries) - 1; i >= 0; i-- {
		sm := summaries[i]
		if dryRun {
			result.Copied++
			continue
		}

		layout, err := src.GetLayout(sm.ID)
		if err != nil {
			return result, fmt.Errorf("read dungeon %d: %w", sm.ID, err)
		}

		id, err := dst.SaveLayout(layout)
		switch {
		case errors.Is(err, ErrDuplicate):
			result.Skipped++
			logger.Debug("Dungeon already in destination", "source_id", sm.ID, "id", id)
		case err != nil:
			return result, fmt.Errorf("write dungeon %d: %w", sm.ID, err)
		default:
			result.Copied++
		}
	}

	return result, nil
}
