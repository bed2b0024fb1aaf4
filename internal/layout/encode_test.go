package layout

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvmkit/nvmlayout/internal/document"
)

func TestCanonicalYAMLMaterializesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join("testdata", "valid_minimal.yml"))
	require.NoError(t, err)

	out, err := cfg.CanonicalYAML()
	require.NoError(t, err)

	text := string(out)
	assert.Contains(t, text, "endianness: little")
	assert.Contains(t, text, "virtual_offset: 0")
	assert.Contains(t, text, "byte_swap: false")
	assert.Contains(t, text, "area: data")
	assert.Contains(t, text, "padding: 255")
	assert.Contains(t, text, "crc_location: end")
}

func TestCanonicalRoundTripMinimal(t *testing.T) {
	assertRoundTrip(t, filepath.Join("testdata", "valid_minimal.yml"))
}

func TestCanonicalRoundTripComplete(t *testing.T) {
	assertRoundTrip(t, filepath.Join("testdata", "valid_complete.toml"))
}

func TestCanonicalRoundTripJSON(t *testing.T) {
	assertRoundTrip(t, filepath.Join("testdata", "valid_blocks.json"))
}

// assertRoundTrip checks the fixed point property: serializing a validated
// config and re-validating the output yields an equal config.
func assertRoundTrip(t *testing.T, path string) {
	t.Helper()

	original, err := Load(path)
	require.NoError(t, err)

	out, err := original.CanonicalYAML()
	require.NoError(t, err)

	doc, err := document.DecodeYAML(out)
	require.NoError(t, err)

	reparsed, err := Validate(doc)
	require.NoError(t, err, "canonical output failed validation:\n%s", out)
	require.Equal(t, original, reparsed, "canonical form did not round-trip:\n%s", out)
}

func TestFloatStringKeepsFloatness(t *testing.T) {
	cases := map[float64]string{
		2.0:   "2.0",
		1.5:   "1.5",
		-0.25: "-0.25",
		1e21:  "1e+21",
	}
	for f, want := range cases {
		assert.Equal(t, want, floatString(f))
	}
}

func TestCanonicalYAMLBlockOrder(t *testing.T) {
	cfg, err := Load(filepath.Join("testdata", "valid_blocks.json"))
	require.NoError(t, err)

	out, err := cfg.CanonicalYAML()
	require.NoError(t, err)

	text := string(out)
	zeta := indexOf(t, text, "zeta:")
	alpha := indexOf(t, text, "alpha:")
	mid := indexOf(t, text, "mid:")
	assert.Less(t, zeta, alpha)
	assert.Less(t, alpha, mid)
}

func indexOf(t *testing.T, haystack, needle string) int {
	t.Helper()
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return i
		}
	}
	t.Fatalf("%q not found in canonical output", needle)
	return -1
}
