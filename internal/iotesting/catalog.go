package iotesting

import (
	"github.com/ncpp/dscat/pkg/descriptor"
)

// StaticCatalog implements descriptor.Catalog with a prepared config.
type StaticCatalog struct {
	Config *descriptor.CatalogConfig
	Err    error
}

// Load implements descriptor.Catalog.
func (c *StaticCatalog) Load() (*descriptor.CatalogConfig, error) {
	if c.Err != nil {
		return nil, c.Err
	}
	res := *c.Config
	return &res, nil
}

// MaurerPackage bundles "maurer-tas" and "maurer-tasmax".
func MaurerPackage() descriptor.PackageDescriptor {
	return descriptor.PackageDescriptor{
		Name:        "Maurer 2010 temperature",
		Description: "Daily mean and maximum temperature.",
		DatasetCategory: descriptor.Named{
			Name: "Packages", Description: "Data packages.",
		},
		Datasets: []string{"maurer-tas", "maurer-tasmax"},
	}
}

// Catalog returns a catalog with Datasets() and MaurerPackage().
func Catalog() *StaticCatalog {
	return &StaticCatalog{Config: &descriptor.CatalogConfig{
		Datasets: Datasets(),
		Packages: []descriptor.PackageDescriptor{MaurerPackage()},
	}}
}
