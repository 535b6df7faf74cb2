// Package iocatalog reads catalog.yaml, the declarative list of datasets
// and data packages to harvest.
package iocatalog

import (
	"bytes"
	"errors"
	"io"
	"os"

	"github.com/ncpp/dscat/pkg/config"
	"github.com/ncpp/dscat/pkg/descriptor"
	"gopkg.in/yaml.v3"
)

type iocatalog struct {
	path string
}

// New creates a catalog loader for the catalog.yaml of the home directory.
func New(cfg *config.Config) descriptor.Catalog {
	return NewFromFile(config.CatalogFilePath(cfg.HomeDir))
}

// NewFromFile creates a catalog loader for a catalog file at path.
func NewFromFile(path string) descriptor.Catalog {
	return &iocatalog{path: path}
}

// Load reads and validates the catalog file.
func (c *iocatalog) Load() (*descriptor.CatalogConfig, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, CatalogConfigError(c.path, err)
	}

	res, err := Parse(data)
	if err != nil {
		return nil, CatalogConfigError(c.path, err)
	}

	if err = res.Validate(); err != nil {
		return nil, CatalogValidationError(c.path, err)
	}
	return res, nil
}

// Parse decodes catalog.yaml content. Unknown keys are rejected, so
// misspelled descriptor fields do not go unnoticed.
func Parse(data []byte) (*descriptor.CatalogConfig, error) {
	var res descriptor.CatalogConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	err := dec.Decode(&res)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return &res, nil
}
