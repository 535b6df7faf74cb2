package iometa

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/ctessum/cdf"
	"github.com/gnames/gnlib"
)

// ncFile is an open NetCDF-3 classic file.
type ncFile struct {
	path string
	f    *os.File
	nc   *cdf.File
	size int64
}

func openFile(path string) (*ncFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	nc, err := cdf.Open(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%s is not a NetCDF-3 file: %w", path, err)
	}
	return &ncFile{path: path, f: f, nc: nc, size: stat.Size()}, nil
}

func (f *ncFile) Close() error {
	return f.f.Close()
}

func (f *ncFile) hasVar(v string) bool {
	return slices.Contains(f.nc.Header.Variables(), v)
}

func (f *ncFile) dims(v string) []string {
	return f.nc.Header.Dimensions(v)
}

// lengths returns dimension lengths of a variable. The record dimension
// gets the number of records of the file.
func (f *ncFile) lengths(v string) []int {
	ls := slices.Clone(f.nc.Header.Lengths(v))
	if f.nc.Header.IsRecordVariable(v) {
		ls[0] = int(f.nc.Header.NumRecs(f.size))
	}
	return ls
}

// readFloats reads a whole numeric variable as float64 values.
func (f *ncFile) readFloats(v string) ([]float64, error) {
	ls := f.lengths(v)
	n := 1
	for _, l := range ls {
		n *= l
	}
	if n == 0 {
		return nil, nil
	}

	var r cdf.Reader
	if f.nc.Header.IsRecordVariable(v) {
		end := make([]int, len(ls))
		for i, l := range ls {
			end[i] = l - 1
		}
		r = f.nc.Reader(v, nil, end)
	} else {
		r = f.nc.Reader(v, nil, nil)
	}
	if r == nil {
		return nil, fmt.Errorf("variable %s not found in %s", v, f.path)
	}

	buf := r.Zero(n)
	read, err := r.Read(buf)
	if err != nil && !(err == io.EOF && read == n) {
		return nil, fmt.Errorf("cannot read %s from %s: %w", v, f.path, err)
	}

	res := make([]float64, n)
	switch vals := buf.(type) {
	case []float64:
		copy(res, vals)
	case []float32:
		for i, val := range vals {
			res[i] = float64(val)
		}
	case []int32:
		for i, val := range vals {
			res[i] = float64(val)
		}
	case []int16:
		for i, val := range vals {
			res[i] = float64(val)
		}
	default:
		return nil, fmt.Errorf("variable %s of %s is not numeric", v, f.path)
	}
	return res, nil
}

// stringAttr returns a text attribute of a variable, or a global one
// when v is empty.
func (f *ncFile) stringAttr(v, name string) (string, bool) {
	s, ok := f.nc.Header.GetAttribute(v, name).(string)
	if !ok {
		return "", false
	}
	s = strings.TrimRight(s, "\x00")
	s = strings.TrimSpace(gnlib.FixUtf8(s))
	return s, s != ""
}

// stringAttrs returns all text attributes of a variable.
func (f *ncFile) stringAttrs(v string) map[string]string {
	res := make(map[string]string)
	for _, name := range f.nc.Header.Attributes(v) {
		if s, ok := f.stringAttr(v, name); ok {
			res[name] = s
		}
	}
	return res
}
