// Package store keeps uploaded source images and rendered outputs on the
// local filesystem.
//
// Uploads are written once under a unique name and never modified, so decoded
// uploads are cached in memory. Outputs are written through a temporary file
// and renamed into place; a failed render never leaves a partial file behind.
package store

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	ewimg "github.com/ironsheep/ewok/internal/imaging"
)

var (
	// ErrNotFound is returned for keys with no stored file. It matches
	// fs.ErrNotExist.
	ErrNotFound = fmt.Errorf("store: not found: %w", fs.ErrNotExist)

	// ErrInvalidKey is returned for empty keys and keys that would escape
	// the storage directory.
	ErrInvalidKey = errors.New("store: invalid key")

	// ErrUnsupportedType is returned when an upload's extension is not
	// allowed or its content is not a decodable image.
	ErrUnsupportedType = errors.New("store: unsupported file type")
)

// DefaultExtensions are the upload extensions accepted when none are configured.
var DefaultExtensions = []string{"png", "jpg", "jpeg", "gif", "bmp", "webp"}

// OutputPrefix starts the name of every rendered output.
const OutputPrefix = "processed_"

// Store persists uploads and outputs in two directories.
type Store struct {
	uploadDir string
	outputDir string
	allowed   map[string]struct{}
	cache     *ewimg.ImageCache
}

// Upload describes a saved upload.
type Upload struct {
	Filename   string                 `json:"filename"`
	Format     string                 `json:"format"`
	Dimensions ewimg.DimensionsResult `json:"dimensions"`
}

// New creates both directories if needed. A nil or empty extensions list
// means DefaultExtensions.
func New(uploadDir, outputDir string, extensions []string) (*Store, error) {
	uploadDir = strings.TrimSpace(uploadDir)
	outputDir = strings.TrimSpace(outputDir)
	if uploadDir == "" || outputDir == "" {
		return nil, errors.New("store: upload and output directories are required")
	}
	for _, dir := range []string{uploadDir, outputDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("store: ensure directory: %w", err)
		}
	}

	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	allowed := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext != "" {
			allowed[ext] = struct{}{}
		}
	}

	return &Store{
		uploadDir: uploadDir,
		outputDir: outputDir,
		allowed:   allowed,
		cache:     ewimg.NewImageCache(),
	}, nil
}

// UploadDir returns the upload directory.
func (s *Store) UploadDir() string { return s.uploadDir }

// OutputDir returns the output directory.
func (s *Store) OutputDir() string { return s.outputDir }

// Allowed reports whether name carries an allowed extension.
func (s *Store) Allowed(name string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	_, ok := s.allowed[ext]
	return ok
}

// Save stores data under "<uuid>_<sanitized name>" and reports the decoded
// dimensions. The content must be an image in a registered format.
func (s *Store) Save(ctx context.Context, originalName string, data []byte) (*Upload, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	clean := SanitizeName(originalName)
	if clean == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidKey, originalName)
	}
	if !s.Allowed(clean) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, originalName)
	}

	dims, format, err := ewimg.ProbeDimensions(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedType, err)
	}

	name := uuid.NewString() + "_" + clean
	if err := writeAtomic(s.uploadDir, name, func(f *os.File) error {
		_, err := f.Write(data)
		return err
	}); err != nil {
		return nil, err
	}

	return &Upload{Filename: name, Format: format, Dimensions: *dims}, nil
}

// LoadStoredImage decodes an upload by key. Missing uploads yield an error
// matching ErrNotFound.
func (s *Store) LoadStoredImage(name string) (image.Image, error) {
	path, err := s.uploadPath(name)
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, err
	}
	return img, nil
}

// WriteOutput encodes img as PNG into the output directory and returns the
// generated file name.
func (s *Store) WriteOutput(ctx context.Context, img image.Image) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	name := OutputPrefix + uuid.NewString() + ".png"
	if err := writeAtomic(s.outputDir, name, func(f *os.File) error {
		return ewimg.EncodePNG(f, img)
	}); err != nil {
		return "", err
	}
	return name, nil
}

// OpenUpload opens a stored upload for reading.
func (s *Store) OpenUpload(name string) (*os.File, error) {
	path, err := s.uploadPath(name)
	if err != nil {
		return nil, err
	}
	return open(path, name)
}

// OpenOutput opens a rendered output for reading.
func (s *Store) OpenOutput(name string) (*os.File, error) {
	key, err := sanitizeKey(name)
	if err != nil {
		return nil, err
	}
	return open(filepath.Join(s.outputDir, key), name)
}

func (s *Store) uploadPath(name string) (string, error) {
	key, err := sanitizeKey(name)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.uploadDir, key), nil
}

func open(path, name string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("store: open: %w", err)
	}
	return f, nil
}

// writeAtomic writes through a temporary file in dir and renames it to name.
func writeAtomic(dir, name string, write func(*os.File) error) error {
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("store: create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if err := write(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("store: write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("store: close %s: %w", name, err)
	}
	if err := os.Rename(tmpName, filepath.Join(dir, name)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("store: rename %s: %w", name, err)
	}
	return nil
}
