package sampler

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/djherbis/times"
)

// CheckFresh fails when any of paths is missing or was last modified before
// since. The work directory is reused between runs, so a tool that dies early
// can leave the previous run's files behind.
func CheckFresh(since time.Time, paths ...string) error {
	cutoff := since.Truncate(time.Second)
	for _, p := range paths {
		ts, err := times.Stat(p)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return missing(p, err)
			}
			return fmt.Errorf("stat %s: %w", p, err)
		}
		if ts.ModTime().Before(cutoff) {
			return &OutputError{
				File:   p,
				Reason: fmt.Sprintf("stale file last modified %s, run started %s", ts.ModTime().Format(time.RFC3339), since.Format(time.RFC3339)),
				Err:    ErrMissingOutput,
			}
		}
	}
	return nil
}
