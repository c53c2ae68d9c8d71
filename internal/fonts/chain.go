// Package fonts resolves font faces for text rendering through an ordered
// fallback chain.
//
// Candidate font files are tried in order; the embedded Go Regular font is
// always the last real candidate and basicfont.Face7x13 guards the chain if
// even that cannot be parsed. Face therefore never fails.
package fonts

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// EmbeddedName names the built-in default font source.
const EmbeddedName = "embedded:goregular"

// DefaultCandidates lists common system fonts probed before the embedded font.
var DefaultCandidates = []string{
	"/System/Library/Fonts/Helvetica.ttc",
	"/System/Library/Fonts/Supplemental/Arial.ttf",
	"/Library/Fonts/Arial.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/truetype/liberation/LiberationSans-Regular.ttf",
	"C:\\Windows\\Fonts\\arial.ttf",
}

// Source produces faces from a single font.
type Source interface {
	Name() string
	Face(size float64) (font.Face, error)
}

// Chain tries its sources in order.
type Chain struct {
	sources []Source
}

// NewChain builds a chain from candidate font file paths followed by the
// embedded default font.
func NewChain(paths ...string) *Chain {
	sources := make([]Source, 0, len(paths)+1)
	for _, p := range paths {
		sources = append(sources, NewFileSource(p))
	}
	sources = append(sources, embedded)
	return &Chain{sources: sources}
}

// Embedded returns a chain holding only the embedded default font. Output is
// identical on every host, which makes it the right choice for tests.
func Embedded() *Chain {
	return &Chain{sources: []Source{embedded}}
}

// Sources returns the candidate names in the order they are tried.
func (c *Chain) Sources() []string {
	names := make([]string, len(c.sources))
	for i, s := range c.sources {
		names[i] = s.Name()
	}
	return names
}

// Face returns a face of the given pixel size from the first source that
// loads, along with that source's name. Faces from font files should be
// closed by the caller once drawing is done.
func (c *Chain) Face(size float64) (font.Face, string) {
	if size < 1 {
		size = 1
	}
	for _, s := range c.sources {
		if face, err := s.Face(size); err == nil {
			return face, s.Name()
		}
	}
	return basicfont.Face7x13, "basicfont"
}

// FileSource loads a TrueType/OpenType font or collection from disk. The
// file is read and parsed at most once.
type FileSource struct {
	path  string
	parse func() (*opentype.Font, error)
}

// NewFileSource returns a lazily parsed font file source.
func NewFileSource(path string) *FileSource {
	return &FileSource{
		path: path,
		parse: sync.OnceValues(func() (*opentype.Font, error) {
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("failed to read font: %w", err)
			}
			return parseFirst(data)
		}),
	}
}

// Name returns the font file path.
func (s *FileSource) Name() string { return s.path }

// Face parses the file on first use and returns a face of the given size.
func (s *FileSource) Face(size float64) (font.Face, error) {
	f, err := s.parse()
	if err != nil {
		return nil, err
	}
	return newFace(f, size)
}

type embeddedSource struct {
	parse func() (*opentype.Font, error)
}

var embedded = &embeddedSource{
	parse: sync.OnceValues(func() (*opentype.Font, error) {
		return opentype.Parse(goregular.TTF)
	}),
}

func (s *embeddedSource) Name() string { return EmbeddedName }

func (s *embeddedSource) Face(size float64) (font.Face, error) {
	f, err := s.parse()
	if err != nil {
		return nil, fmt.Errorf("failed to parse embedded font: %w", err)
	}
	return newFace(f, size)
}

// parseFirst accepts single fonts and collections, returning the first font.
func parseFirst(data []byte) (*opentype.Font, error) {
	coll, err := opentype.ParseCollection(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	if coll.NumFonts() == 0 {
		return nil, fmt.Errorf("font collection is empty")
	}
	return coll.Font(0)
}

func newFace(f *opentype.Font, size float64) (font.Face, error) {
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create face: %w", err)
	}
	return face, nil
}
