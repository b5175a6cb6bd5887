package sampler

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadBackgroundFile(t *testing.T) {
	bg, err := ReadBackgroundFile(filepath.Join("testdata", "basic", BackgroundFile))
	require.NoError(t, err)
	assert.InDelta(t, 0.3, bg.A, 1e-9)
	assert.InDelta(t, 0.2, bg.C, 1e-9)
	assert.InDelta(t, 0.2, bg.G, 1e-9)
	assert.InDelta(t, 0.3, bg.T, 1e-9)
}

func TestParseBackground_Normalises(t *testing.T) {
	bg, err := parseBackground(strings.NewReader("#SNF\n30 20 20 30\n"), "bg")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, bg.Sum(), 1e-9)
	assert.InDelta(t, 0.3, bg.T, 1e-9)
}

func TestParseBackground_Errors(t *testing.T) {
	tests := map[string]string{
		"no snf section": "#Order = 0\n0.1 0.2 0.3 0.4\n",
		"short row":      "#snf\n0.5 0.5\n",
		"zero sum":       "#snf\n0 0 0 0\n",
	}
	for name, text := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := parseBackground(strings.NewReader(text), "bg")
			assert.True(t, errors.Is(err, ErrMalformedOutput), "got %v", err)
		})
	}
}

func TestReadBackgroundFile_Missing(t *testing.T) {
	_, err := ReadBackgroundFile(filepath.Join(t.TempDir(), BackgroundFile))
	assert.True(t, errors.Is(err, ErrMissingOutput))
}
