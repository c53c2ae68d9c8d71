package fonts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
)

func TestEmbeddedChain(t *testing.T) {
	face, name := Embedded().Face(24)
	require.NotNil(t, face)
	defer face.Close()

	assert.Equal(t, EmbeddedName, name)

	bounds, advance := font.BoundString(face, "Hi")
	assert.Positive(t, advance.Ceil())
	assert.Positive(t, (bounds.Max.Y - bounds.Min.Y).Ceil())
}

func TestChain_FallsThroughBrokenCandidates(t *testing.T) {
	dir := t.TempDir()
	garbage := filepath.Join(dir, "garbage.ttf")
	require.NoError(t, os.WriteFile(garbage, []byte("definitely not a font"), 0o644))

	chain := NewChain(filepath.Join(dir, "missing.ttf"), garbage)
	assert.Equal(t, []string{filepath.Join(dir, "missing.ttf"), garbage, EmbeddedName}, chain.Sources())

	face, name := chain.Face(18)
	require.NotNil(t, face)
	defer face.Close()
	assert.Equal(t, EmbeddedName, name)
}

func TestChain_UsesFirstLoadableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "regular.ttf")
	require.NoError(t, os.WriteFile(path, goregular.TTF, 0o644))

	face, name := NewChain(path).Face(12)
	require.NotNil(t, face)
	defer face.Close()
	assert.Equal(t, path, name)
}

func TestChain_SizeScalesGlyphs(t *testing.T) {
	small, _ := Embedded().Face(12)
	large, _ := Embedded().Face(48)
	defer small.Close()
	defer large.Close()

	_, smallAdv := font.BoundString(small, "Hello")
	_, largeAdv := font.BoundString(large, "Hello")
	assert.Greater(t, largeAdv, smallAdv*3)
}

func TestChain_EmptyFallsBackToBasicFont(t *testing.T) {
	face, name := (&Chain{}).Face(24)
	assert.Equal(t, basicfont.Face7x13, face)
	assert.Equal(t, "basicfont", name)
}

func TestChain_NonPositiveSize(t *testing.T) {
	face, name := Embedded().Face(0)
	require.NotNil(t, face)
	defer face.Close()
	assert.Equal(t, EmbeddedName, name)
}
