// Package jobs defines the boundary to the remote service that runs
// climate operations over resolved catalog datasets.
package jobs

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/ncpp/dscat/pkg/query"
)

// Executor submits operations to a remote execution service.
type Executor interface {
	// Submit sends a request and returns the initial status of the job.
	Submit(ctx context.Context, req Request) (*Status, error)

	// Status returns the current status of a job.
	Status(ctx context.Context, id string) (*Status, error)

	// Wait polls a job until it succeeds, fails, or the configured
	// timeout expires.
	Wait(ctx context.Context, id string) (*Status, error)
}

// Job states.
const (
	StateAccepted  = "accepted"
	StateRunning   = "running"
	StateSucceeded = "succeeded"
	StateFailed    = "failed"
)

// Output formats understood by the engine.
var OutputFormats = []string{"numpy", "nc", "csv", "csv+", "shp"}

// Request is an operation over one or more resolved datasets.
type Request struct {
	// Datasets come from the Query Engine unchanged.
	Datasets []query.RequestDataset `json:"datasets"`

	// Geometry is a WKT polygon or a name of a predefined geometry.
	Geometry string `json:"geom,omitempty"`

	// TimeRange subsets datasets in time.
	TimeRange *query.TimeRange `json:"time_range,omitempty"`

	// Calculation is a list of calculation names, e.g. "mean".
	Calculation []string `json:"calc,omitempty"`

	// CalcGrouping is a temporal grouping, e.g. ["month", "year"].
	CalcGrouping []string `json:"calc_grouping,omitempty"`

	// Aggregate spatially averages selected geometries.
	Aggregate bool `json:"aggregate"`

	OutputFormat string `json:"output_format"`

	// Prefix names the produced artifact.
	Prefix string `json:"prefix,omitempty"`
}

// Status of a submitted job.
type Status struct {
	ID    string `json:"id"`
	State string `json:"state"`

	// ArtifactURL is set when State is succeeded.
	ArtifactURL string `json:"artifact_url,omitempty"`

	// Message explains failures.
	Message string `json:"message,omitempty"`
}

// Done reports if the job reached a final state.
func (s *Status) Done() bool {
	return s.State == StateSucceeded || s.State == StateFailed
}

// Validate checks a request before it is submitted.
func (r *Request) Validate() error {
	if len(r.Datasets) == 0 {
		return fmt.Errorf("at least one dataset is required")
	}
	for i, d := range r.Datasets {
		if len(d.URI) == 0 || d.Variable == "" {
			return fmt.Errorf("dataset %d needs uri and variable", i+1)
		}
		if d.TUnits == "" || d.TCalendar == "" {
			return fmt.Errorf("dataset %d needs time units and calendar", i+1)
		}
	}
	if r.OutputFormat == "" {
		r.OutputFormat = "nc"
	}
	r.OutputFormat = strings.ToLower(r.OutputFormat)
	if !slices.Contains(OutputFormats, r.OutputFormat) {
		return fmt.Errorf("unknown output format '%s', use one of %s",
			r.OutputFormat, strings.Join(OutputFormats, ", "))
	}
	if len(r.CalcGrouping) > 0 && len(r.Calculation) == 0 {
		return fmt.Errorf("calc_grouping requires a calculation")
	}
	return r.TimeRange.Validate()
}
