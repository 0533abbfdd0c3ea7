// Package assets manages ingestion, naming, and deletion of user-supplied
// files under a managed data directory, partitioned by file type. The store
// hands out relative locators and keeps no back-references: whoever persists
// a locator owns it.
package assets

import (
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/starford/tavle/internal/apperr"
)

const (
	assetsDir  = "assets"
	backupsDir = "backups"
	tempDir    = "temp"

	// CategoryPDFs and friends are the subdirectories of assets/ that
	// ingestion routes into by file type.
	CategoryPDFs   = "pdfs"
	CategoryImages = "images"
	CategoryOther  = "other"

	// placeholderName is used when a filename hint sanitizes to nothing.
	placeholderName = "asset.bin"
)

var safeFilenameRe = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// Locator identifies a stored asset as `<category>/<filename>`, relative to
// the assets directory. It stays valid for the life of the file.
type Locator string

// Category returns the leading path element of the locator.
func (l Locator) Category() string {
	cat, _, _ := strings.Cut(string(l), "/")
	return cat
}

// Filename returns the stored file name portion of the locator.
func (l Locator) Filename() string {
	_, name, _ := strings.Cut(string(l), "/")
	return name
}

// Store manages the on-disk asset tree under a single data root.
type Store struct {
	root string // absolute path to the application data directory
}

// NewStore creates a store rooted at the given data directory, which must
// already exist (EnsureLayout creates it on startup).
func NewStore(root string) (*Store, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("assets: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("assets: stat root: %w: %w", apperr.ErrUnavailable, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("assets: root is not a directory: %s", abs)
	}
	return &Store{root: abs}, nil
}

// Root returns the absolute data directory path.
func (s *Store) Root() string { return s.root }

// EnsureLayout idempotently creates the fixed directory skeleton under
// root: assets/{pdfs,images,other}, backups, temp. Safe to call on every
// startup.
func EnsureLayout(root string) error {
	dirs := []string{
		filepath.Join(root, assetsDir, CategoryPDFs),
		filepath.Join(root, assetsDir, CategoryImages),
		filepath.Join(root, assetsDir, CategoryOther),
		filepath.Join(root, backupsDir),
		filepath.Join(root, tempDir),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return fmt.Errorf("assets: create %s: %w", d, err)
		}
	}
	return nil
}

// categoryFor routes a declared file type into its category directory.
func categoryFor(fileType string) string {
	switch strings.ToLower(strings.TrimSpace(fileType)) {
	case "pdf":
		return CategoryPDFs
	case "image":
		return CategoryImages
	default:
		return CategoryOther
	}
}

// sanitizeName reduces a filename hint to the allowed character set,
// falling back to a fixed placeholder when nothing survives.
func sanitizeName(hint string) string {
	name := filepath.Base(strings.TrimSpace(hint))
	name = safeFilenameRe.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")
	if name == "" {
		return placeholderName
	}
	return name
}

// uniqueName prefixes name with a millisecond timestamp. Collisions are
// only possible for identical names ingested within the same millisecond,
// an accepted residual risk.
func uniqueName(name string) string {
	return fmt.Sprintf("%d_%s", time.Now().UnixMilli(), name)
}

// IngestFromPath copies the file at sourcePath into the category directory
// for fileType and returns its locator. The source is never moved or
// modified. The locator is returned only after the copy is durably complete.
func (s *Store) IngestFromPath(sourcePath, fileType string) (Locator, error) {
	info, err := os.Stat(sourcePath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("assets: ingest %s: %w", sourcePath, apperr.ErrNotFound)
		}
		return "", fmt.Errorf("assets: stat source %s: %w", sourcePath, err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("%w: source is not a regular file: %s", apperr.ErrInvalidInput, sourcePath)
	}

	src, err := os.Open(sourcePath)
	if err != nil {
		return "", fmt.Errorf("assets: open source %s: %w", sourcePath, err)
	}
	defer src.Close()

	return s.place(src, filepath.Base(sourcePath), fileType)
}

// IngestFromBytes decodes a base64 payload and stores it under a sanitized
// version of filenameHint. Same routing and uniqueness contract as
// IngestFromPath, writing bytes directly rather than copying.
func (s *Store) IngestFromBytes(encoded, filenameHint, fileType string) (Locator, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("%w: decode payload: %v", apperr.ErrInvalidInput, err)
	}
	return s.place(strings.NewReader(string(data)), sanitizeName(filenameHint), fileType)
}

// IngestFromReader streams r into the category directory for fileType under
// a sanitized version of filenameHint. Same routing and uniqueness contract
// as IngestFromPath.
func (s *Store) IngestFromReader(r io.Reader, filenameHint, fileType string) (Locator, error) {
	return s.place(r, sanitizeName(filenameHint), fileType)
}

// place writes r into the category directory under a unique name, using a
// temporary file and rename so a half-written asset is never visible under
// its final name.
func (s *Store) place(r io.Reader, name, fileType string) (Locator, error) {
	category := categoryFor(fileType)
	dir := filepath.Join(s.root, assetsDir, category)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("assets: create category dir %s: %w", dir, err)
	}

	final := uniqueName(name)
	dst := filepath.Join(dir, final)

	tmp, err := os.CreateTemp(dir, ".tavle-tmp-*")
	if err != nil {
		return "", fmt.Errorf("assets: create temp in %s: %w", dir, err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := io.Copy(tmp, r); err != nil {
		return "", fmt.Errorf("assets: write %s: %w", dst, err)
	}
	if err := tmp.Sync(); err != nil {
		return "", fmt.Errorf("assets: fsync %s: %w", dst, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("assets: close temp for %s: %w", dst, err)
	}
	if err := os.Rename(tmpName, dst); err != nil {
		return "", fmt.Errorf("assets: rename into place %s: %w", dst, err)
	}
	success = true

	return Locator(path.Join(category, final)), nil
}

// Delete removes the file the locator points at. Returns false, without
// error, when the file is already absent. Deletion is a single filesystem
// remove, so concurrent operations on the same locator see it either fully
// present or fully gone.
func (s *Store) Delete(loc Locator) (bool, error) {
	abs, err := s.Resolve(loc)
	if err != nil {
		return false, err
	}
	if err := os.Remove(abs); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("assets: delete %s: %w", loc, err)
	}
	return true, nil
}

// Resolve composes the absolute filesystem path for a locator. Pure path
// composition; it performs no I/O but rejects malformed locators that would
// escape the assets tree.
func (s *Store) Resolve(loc Locator) (string, error) {
	if err := validateLocator(loc); err != nil {
		return "", err
	}
	return filepath.Join(s.root, assetsDir, filepath.FromSlash(string(loc))), nil
}

// validateLocator rejects anything other than `<known-category>/<name>`.
func validateLocator(loc Locator) error {
	raw := string(loc)
	cat, name, ok := strings.Cut(raw, "/")
	if !ok || name == "" || strings.Contains(name, "/") {
		return fmt.Errorf("%w: malformed locator %q", apperr.ErrInvalidInput, raw)
	}
	switch cat {
	case CategoryPDFs, CategoryImages, CategoryOther:
	default:
		return fmt.Errorf("%w: unknown asset category %q", apperr.ErrInvalidInput, cat)
	}
	if name != filepath.Base(filepath.Clean(name)) || strings.Contains(raw, "..") {
		return fmt.Errorf("%w: locator escapes assets tree: %q", apperr.ErrInvalidInput, raw)
	}
	return nil
}
