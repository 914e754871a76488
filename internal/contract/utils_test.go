package contract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/huangsam/timeline/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPlainLabel(t *testing.T) {
	assert.Equal(t, HighValue, GetPlainLabel(schema.HighTier))
	assert.Equal(t, MediumValue, GetPlainLabel(schema.MediumTier))
	assert.Equal(t, LowValue, GetPlainLabel(schema.LowTier))
	assert.Equal(t, LowValue, GetPlainLabel(""))
}

func TestGetColorLabel(t *testing.T) {
	prev := color.NoColor
	color.NoColor = false
	defer func() { color.NoColor = prev }()

	label := GetColorLabel(schema.HighTier)
	assert.Contains(t, label, HighValue)
	assert.NotEqual(t, HighValue, label)
}

func TestTierHexColor(t *testing.T) {
	seen := map[string]bool{}
	for tier := range schema.ValidTiers {
		hex := TierHexColor(tier)
		assert.True(t, strings.HasPrefix(hex, "#"))
		seen[hex] = true
	}
	assert.Len(t, seen, 3)
}

func TestSelectOutputFile(t *testing.T) {
	f, err := SelectOutputFile("")
	require.NoError(t, err)
	assert.Equal(t, os.Stdout, f)

	path := filepath.Join(t.TempDir(), "out.txt")
	f, err = SelectOutputFile(path)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	assert.FileExists(t, path)
}

func TestParseBoolString(t *testing.T) {
	for _, s := range []string{"yes", "TRUE", "1", " true "} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.True(t, v, s)
	}
	for _, s := range []string{"no", "False", "0"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.False(t, v, s)
	}
	_, err := ParseBoolString("")
	assert.Error(t, err)
}

func TestDBFilePaths(t *testing.T) {
	assert.True(t, strings.HasSuffix(GetDBFilePath(), ".timeline_cache.db"))
	assert.True(t, strings.HasSuffix(GetBoltFilePath(), ".timeline_cache.bolt"))
}
