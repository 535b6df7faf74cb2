// Package ioharvest implements the Harvester and Checker interfaces. It
// reads metadata of dataset descriptors from catalog.yaml and writes
// them, together with package descriptors, to the catalog store.
package ioharvest

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/google/uuid"
	"github.com/ncpp/dscat/internal/iocatalog"
	"github.com/ncpp/dscat/internal/ioschema"
	"github.com/ncpp/dscat/pkg/config"
	"github.com/ncpp/dscat/pkg/db"
	"github.com/ncpp/dscat/pkg/descriptor"
	"github.com/ncpp/dscat/pkg/lifecycle"
	"github.com/ncpp/dscat/pkg/metadata"
	"github.com/ncpp/dscat/pkg/schema"
	"gorm.io/gorm"
)

type harvester struct {
	operator  db.Operator
	extractor metadata.Extractor
	catalog   descriptor.Catalog
}

// New creates a Harvester. When cat is nil, catalog.yaml of the home
// directory is used.
func New(
	op db.Operator,
	ext metadata.Extractor,
	cat descriptor.Catalog,
) lifecycle.Harvester {
	return &harvester{operator: op, extractor: ext, catalog: cat}
}

// Harvest implements lifecycle.Harvester.
func (h *harvester) Harvest(
	ctx context.Context,
	cfg *config.Config,
) (*lifecycle.HarvestSummary, error) {
	if h.operator.DB() == nil {
		return nil, NotConnectedError()
	}
	if err := ctx.Err(); err != nil {
		return nil, CancelledError(err)
	}

	startTime := time.Now()
	res := &lifecycle.HarvestSummary{RunID: uuid.NewString()}
	log := slog.With("run_id", res.RunID)
	log.Info("Starting harvest")

	cat := h.catalog
	if cat == nil {
		cat = iocatalog.New(cfg)
	}
	cc, err := cat.Load()
	if err != nil {
		return nil, err
	}
	for _, w := range cc.Warnings {
		log.Warn("Catalog warning",
			"descriptor", w.DescriptorID,
			"field", w.Field,
			"message", w.Message,
		)
	}

	ids := cfg.Harvest.DescriptorIDs
	datasets, err := cc.Select(ids)
	if err != nil {
		return nil, SelectionError(ids, err)
	}

	if cfg.Harvest.Fresh {
		log.Info("Dropping catalog tables")
		if err = h.operator.DropAllTables(ctx); err != nil {
			return nil, err
		}
	}
	if err = ioschema.NewManager(h.operator).Create(ctx, cfg); err != nil {
		return nil, err
	}

	if !cfg.Harvest.SkipDatasets {
		for _, d := range datasets {
			if err = ctx.Err(); err != nil {
				return nil, CancelledError(err)
			}
			h.harvestDataset(ctx, log, d, res)
		}
	}

	if !cfg.Harvest.SkipPackages {
		for _, pd := range selectPackages(cc.Packages, ids) {
			if err = ctx.Err(); err != nil {
				return nil, CancelledError(err)
			}
			h.harvestPackage(ctx, log, cc, pd, res)
		}
	}

	res.Duration = time.Since(startTime)
	done := res.Datasets + res.Packages
	log.Info("Harvest complete",
		"datasets", res.Datasets,
		"packages", res.Packages,
		"containers", res.Containers,
		"fields", res.Fields,
		"errors", len(res.Failures),
		"duration", gnfmt.TimeString(res.Duration.Seconds()),
	)
	gn.Info(`Harvest complete
Datasets: %d, packages: %d, fields: %s, failed: %d.
		Elapsed time: <em>%s</em>
`,
		res.Datasets,
		res.Packages,
		humanize.Comma(int64(res.Fields)),
		len(res.Failures),
		gnfmt.TimeString(res.Duration.Seconds()),
	)

	if len(res.Failures) > 0 && done == 0 {
		return res, AllFailedError(len(res.Failures))
	}
	if len(res.Failures) > 0 {
		log.Warn("Some harvest units failed",
			"failed", len(res.Failures),
			"succeeded", done)
	}
	return res, nil
}

func (h *harvester) harvestDataset(
	ctx context.Context,
	log *slog.Logger,
	d descriptor.HarvestDescriptor,
	res *lifecycle.HarvestSummary,
) {
	log = log.With("descriptor", d.ID)
	fail := func(err error) {
		log.Error("Failed to harvest dataset", "error", err)
		gn.Warn("Dataset <em>%s</em> failed: %s", d.ID, err)
		res.Failures = append(res.Failures,
			lifecycle.Failure{Unit: d.ID, Err: err})
	}

	rec, err := h.extractor.Extract(ctx, d.MetadataRequest(""))
	if err != nil {
		fail(HarvestMetadataError(d.ID, err))
		return
	}

	var c *schema.Container
	err = h.operator.Scoped(ctx, func(tx *gorm.DB) error {
		var err error
		c, err = InsertDataset(tx, d, rec)
		return err
	})
	if err != nil {
		if _, ok := err.(*gn.Error); !ok {
			err = HarvestInsertError(d.ID, err)
		}
		fail(err)
		return
	}

	res.Datasets++
	res.Containers++
	res.Fields += len(c.Fields)
	log.Info("Dataset harvested",
		"container_id", c.ID,
		"frequency", c.TimeFrequency,
		"shape", c.FieldShape,
	)
	gn.Info("Dataset <em>%s</em>: %s, %s", d.ID, c.TimeFrequency, c.FieldShape)
}

func (h *harvester) harvestPackage(
	ctx context.Context,
	log *slog.Logger,
	cc *descriptor.CatalogConfig,
	pd descriptor.PackageDescriptor,
	res *lifecycle.HarvestSummary,
) {
	log = log.With("package", pd.Name)

	members := make([]descriptor.HarvestDescriptor, 0, len(pd.Datasets))
	for _, id := range pd.Datasets {
		if d, ok := cc.Dataset(id); ok {
			members = append(members, d)
		}
	}

	var p *schema.DataPackage
	err := h.operator.Scoped(ctx, func(tx *gorm.DB) error {
		var err error
		p, err = InsertPackage(tx, pd, members)
		return err
	})
	if err != nil {
		log.Error("Failed to insert package", "error", err)
		gn.Warn("Package <em>%s</em> failed: %s", pd.Name, err)
		res.Failures = append(res.Failures,
			lifecycle.Failure{Unit: pd.Name, Err: err})
		return
	}

	res.Packages++
	log.Info("Package inserted",
		"package_id", p.ID,
		"members", len(p.Members),
	)
	gn.Info("Package <em>%s</em>: %d fields", pd.Name, len(p.Members))
}

// selectPackages returns packages with at least one member in ids.
// Empty ids select all packages.
func selectPackages(
	pkgs []descriptor.PackageDescriptor,
	ids []string,
) []descriptor.PackageDescriptor {
	if len(ids) == 0 {
		return pkgs
	}
	var res []descriptor.PackageDescriptor
	for _, p := range pkgs {
		if slices.ContainsFunc(p.Datasets, func(id string) bool {
			return slices.Contains(ids, id)
		}) {
			res = append(res, p)
		}
	}
	return res
}
