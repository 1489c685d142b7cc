package migration

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusString(t *testing.T) {
	assert.Equal(t, "0", Status{}.String())
	assert.Equal(t, "3", Status{Version: 3}.String())
	assert.Equal(t, "3 (dirty)", Status{Version: 3, Dirty: true}.String())
}

func TestOpenSource_MissingDirectory(t *testing.T) {
	_, err := openSource(Source{Path: t.TempDir() + "/missing"}, nil)
	assert.ErrorContains(t, err, "migration: open")
}
