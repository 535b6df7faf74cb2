package lifecycle

import (
	"context"
	"time"

	"github.com/ncpp/dscat/pkg/config"
)

// Harvester builds the catalog from the descriptors of catalog.yaml.
//
// Every dataset descriptor and every package descriptor is one unit of
// work, inserted in its own transaction. A failed unit is logged and
// counted, the remaining units are still processed. Harvest returns an
// error only when nothing could be inserted, or when the catalog itself
// is unusable.
type Harvester interface {
	// Harvest inserts the descriptors selected by cfg.Harvest. With
	// cfg.Harvest.Fresh the catalog schema is dropped and recreated first.
	Harvest(ctx context.Context, cfg *config.Config) (*HarvestSummary, error)
}

// HarvestSummary describes the outcome of a harvest run.
type HarvestSummary struct {
	// RunID identifies log records of the run.
	RunID string

	// Datasets is the number of inserted dataset descriptors.
	Datasets int

	// Containers and Fields count rows created by this run.
	Containers int
	Fields     int

	// Packages is the number of inserted package descriptors.
	Packages int

	// Failures lists units that could not be inserted.
	Failures []Failure

	Duration time.Duration
}

// Failure is a dataset or package that was not inserted.
type Failure struct {
	// Unit is a dataset descriptor id or a package name.
	Unit string
	Err  error
}

// Checker reads metadata of all dataset descriptors without touching the
// catalog. It is used to find broken descriptors before a harvest.
type Checker interface {
	Check(ctx context.Context, cfg *config.Config) (*CheckReport, error)
}

// CheckReport contains one entry per checked descriptor, in catalog order.
type CheckReport struct {
	Entries []CheckEntry
}

// CheckEntry is the result of reading one dataset descriptor.
type CheckEntry struct {
	ID            string
	TimeFrequency string
	FieldShape    string
	TimeStart     time.Time
	TimeStop      time.Time
	Err           error
}

// Failed returns entries with errors.
func (r *CheckReport) Failed() []CheckEntry {
	var res []CheckEntry
	for _, e := range r.Entries {
		if e.Err != nil {
			res = append(res, e)
		}
	}
	return res
}
