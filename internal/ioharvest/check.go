package ioharvest

import (
	"context"
	"log/slog"

	"github.com/cheggaaa/pb/v3"
	"github.com/ncpp/dscat/internal/iocatalog"
	"github.com/ncpp/dscat/pkg/config"
	"github.com/ncpp/dscat/pkg/descriptor"
	"github.com/ncpp/dscat/pkg/lifecycle"
	"github.com/ncpp/dscat/pkg/metadata"
	"github.com/ncpp/dscat/pkg/schema"
	"golang.org/x/sync/errgroup"
)

type checker struct {
	extractor metadata.Extractor
	catalog   descriptor.Catalog
}

// NewChecker creates a Checker. When cat is nil, catalog.yaml of the
// home directory is used.
func NewChecker(
	ext metadata.Extractor,
	cat descriptor.Catalog,
) lifecycle.Checker {
	return &checker{extractor: ext, catalog: cat}
}

// Check implements lifecycle.Checker. Descriptors are read concurrently
// by cfg.JobsNumber workers. An unreadable descriptor does not stop the
// check, it is reported in its entry.
func (c *checker) Check(
	ctx context.Context,
	cfg *config.Config,
) (*lifecycle.CheckReport, error) {
	cat := c.catalog
	if cat == nil {
		cat = iocatalog.New(cfg)
	}
	cc, err := cat.Load()
	if err != nil {
		return nil, err
	}

	ids := cfg.Harvest.DescriptorIDs
	datasets, err := cc.Select(ids)
	if err != nil {
		return nil, SelectionError(ids, err)
	}

	entries := make([]lifecycle.CheckEntry, len(datasets))

	bar := pb.Full.Start(len(datasets))
	bar.Set("prefix", "Checking datasets: ")
	bar.Set(pb.CleanOnFinish, true)
	defer bar.Finish()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(cfg.JobsNumber, 1))
	for i, d := range datasets {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			entries[i] = c.checkDataset(gctx, d)
			bar.Increment()
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return nil, CancelledError(err)
	}
	if err = ctx.Err(); err != nil {
		return nil, CancelledError(err)
	}

	res := &lifecycle.CheckReport{Entries: entries}
	slog.Info("Check complete",
		"datasets", len(entries),
		"failed", len(res.Failed()),
	)
	return res, nil
}

func (c *checker) checkDataset(
	ctx context.Context,
	d descriptor.HarvestDescriptor,
) lifecycle.CheckEntry {
	res := lifecycle.CheckEntry{ID: d.ID}
	rec, err := c.extractor.Extract(ctx, d.MetadataRequest(""))
	if err != nil {
		res.Err = HarvestMetadataError(d.ID, err)
		slog.Warn("Cannot read dataset", "descriptor", d.ID, "error", err)
		return res
	}
	res.FieldShape = rec.FieldShape()
	res.TimeStart = rec.TimeStart
	res.TimeStop = rec.TimeStop
	res.TimeFrequency, res.Err = schema.TimeFrequency(rec.TimeResolutionDays)
	return res
}
