package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadSeedShippedFile(t *testing.T) {
	data, err := readSeed(filepath.Join("..", "..", "config", "seed.yaml"))
	require.NoError(t, err)

	assert.NotEmpty(t, data.Plans)
	assert.NotEmpty(t, data.Ratings)
	assert.NotEmpty(t, data.Schedules)
	assert.NotEmpty(t, data.Sizes)

	components := make(map[string]bool, len(data.Components))
	for _, c := range data.Components {
		components[c.Name] = true
	}
	for _, d := range data.ComponentDescriptions {
		assert.True(t, components[d.Component], "description %s references unknown component %q", d.Code, d.Component)
		assert.NotEmpty(t, d.Code)
	}

	for _, p := range data.Plans {
		if p.Name == "Enterprise" {
			assert.Nil(t, p.MaxProjects)
		}
	}
}

func TestReadSeedInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ratings: [unclosed"), 0o600))

	_, err := readSeed(path)
	assert.Error(t, err)

	_, err = readSeed(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
