package metadata_test

import (
	"testing"

	"github.com/ncpp/dscat/pkg/metadata"
	"github.com/stretchr/testify/assert"
)

func TestFieldShape(t *testing.T) {
	tests := []struct {
		msg   string
		shape []int
		res   string
	}{
		{"cancm4", []int{1, 3650, 1, 64, 128}, "(1, 3650, 1, 64, 128)"},
		{"single", []int{7}, "(7)"},
		{"empty", nil, "()"},
	}
	for _, v := range tests {
		r := metadata.Record{Shape: v.shape}
		assert.Equal(t, v.res, r.FieldShape(), v.msg)
	}
}

func TestAttr(t *testing.T) {
	r := metadata.Record{
		Variables: map[string]metadata.VariableMeta{
			"tas": {Attrs: map[string]string{"units": "K"}},
		},
	}
	res, ok := r.Attr("tas", "units")
	assert.True(t, ok)
	assert.Equal(t, "K", res)

	_, ok = r.Attr("tas", "long_name")
	assert.False(t, ok, "missing attribute")

	_, ok = r.Attr("pr", "units")
	assert.False(t, ok, "missing variable")
}
