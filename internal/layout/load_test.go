package layout

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvmkit/nvmlayout/internal/document"
)

func TestLoadValidMinimal(t *testing.T) {
	cfg, err := Load(filepath.Join("testdata", "valid_minimal.yml"))

	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, []string{"fw"}, cfg.BlockNames())
}

func TestLoadValidCompleteTOML(t *testing.T) {
	cfg, err := Load(filepath.Join("testdata", "valid_complete.toml"))

	require.NoError(t, err)
	assert.Equal(t, []string{"boot", "calib"}, cfg.BlockNames())

	assert.Equal(t, EndianBig, cfg.Settings.Endianness)
	assert.Equal(t, uint32(4096), cfg.Settings.VirtualOffset)
	assert.True(t, cfg.Settings.ByteSwap)
	assert.True(t, cfg.Settings.PadToEnd)
	assert.Equal(t, uint64(79764919), cfg.Settings.Crc.Polynomial)
	assert.Equal(t, CrcAreaBlock, cfg.Settings.Crc.Area)

	boot, err := cfg.Block("boot")
	require.NoError(t, err)
	assert.Equal(t, uint32(0x08000000), boot.Header.StartAddress)
	assert.Equal(t, byte(0), boot.Header.Padding)
	assert.True(t, boot.Header.CrcLocation.Symbolic)

	// Group fields keep their TOML document order.
	names := make([]string, len(boot.Data.Children))
	for i, c := range boot.Data.Children {
		names[i] = c.Name
	}
	assert.Equal(t, []string{"version", "build"}, names)

	build, ok := boot.Data.Child("build")
	require.True(t, ok)
	tag, ok := build.Child("tag")
	require.True(t, ok)
	require.True(t, tag.IsLeaf())
	assert.Equal(t, TypeU8, tag.Leaf.Type)
	require.NotNil(t, tag.Leaf.Size)
	assert.Equal(t, uint64(16), tag.Leaf.Size.Rows)
	dv, err := tag.Leaf.Source.Value.Single()
	require.NoError(t, err)
	assert.Equal(t, DataValue{Kind: DataString, Str: "rel-2026"}, dv)

	calib, err := cfg.Block("calib")
	require.NoError(t, err)
	assert.False(t, calib.Header.CrcLocation.Symbolic)
	assert.Equal(t, uint32(134220284), calib.Header.CrcLocation.Address)
	assert.Equal(t, byte(0xFF), calib.Header.Padding)

	gain, ok := calib.Data.Child("gain_table")
	require.True(t, ok)
	assert.True(t, gain.Leaf.StrictSize)
	assert.True(t, gain.Leaf.Size.TwoD)
	assert.Equal(t, uint64(4), gain.Leaf.Size.Rows)
	assert.Equal(t, uint64(4), gain.Leaf.Size.Cols)
	require.True(t, gain.Leaf.Source.IsNamed())
	assert.Equal(t, "gain_matrix", gain.Leaf.Source.Name)

	offsets, ok := calib.Data.Child("offsets")
	require.True(t, ok)
	assert.Equal(t, 2, offsets.Leaf.Alignment())
	vals := offsets.Leaf.Source.Value.Array()
	require.Len(t, vals, 3)
	assert.Equal(t, DataValue{Kind: DataInt, Int: -1}, vals[0])
	assert.Equal(t, DataValue{Kind: DataUint, Uint: 0}, vals[1])
	assert.Equal(t, DataValue{Kind: DataUint, Uint: 250}, vals[2])
}

func TestLoadValidBlocksJSON(t *testing.T) {
	cfg, err := Load(filepath.Join("testdata", "valid_blocks.json"))

	require.NoError(t, err)
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, cfg.BlockNames())

	alpha, err := cfg.Block("alpha")
	require.NoError(t, err)
	assert.False(t, alpha.Header.CrcLocation.Symbolic)
	assert.Equal(t, uint32(12), alpha.Header.CrcLocation.Address)
}

func TestLoadWrapsValidationErrors(t *testing.T) {
	path := filepath.Join("testdata", "invalid_missing_settings.yml")
	cfg, err := Load(path)

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse file "+path)

	// Field-level detail survives the wrapping.
	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.True(t, verrs.HasKind(ErrMissingField))
	assert.Equal(t, "settings", verrs[0].Path)
}

func TestLoadUnsupportedExtension(t *testing.T) {
	cfg, err := Load("layout.xml")

	assert.Nil(t, cfg)
	require.Error(t, err)
	var ufe *document.UnsupportedFormatError
	require.True(t, errors.As(err, &ufe))
	assert.Equal(t, ".xml", ufe.Ext)
}

func TestLoadDecodeErrorPropagates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.yml")
	require.NoError(t, os.WriteFile(path, []byte("a: [1,\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode YAML")
}
