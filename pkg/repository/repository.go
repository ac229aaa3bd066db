package repository

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	apperrors "github.com/amaumene/marketconf/pkg/errors"
	"github.com/amaumene/marketconf/pkg/models"
)

//go:embed profiles/*
var embeddedProfiles embed.FS

// Repository defines the interface for reading configuration profiles
type Repository interface {
	// List returns the profile names in ascending order
	List() ([]string, error)
	// Get parses the named profile
	Get(name string) (*models.Document, error)
	// Describe names the backing source for logs
	Describe() string
}

// FSRepository implements Repository over a flat directory of profile
// files. The profile name is the file name without its extension.
type FSRepository struct {
	fsys fs.FS
	desc string
}

// NewFSRepository serves the profiles found at the root of fsys.
func NewFSRepository(fsys fs.FS, desc string) *FSRepository {
	return &FSRepository{fsys: fsys, desc: desc}
}

// NewEmbeddedRepository serves the profiles compiled into the binary.
func NewEmbeddedRepository() *FSRepository {
	sub, err := fs.Sub(embeddedProfiles, "profiles")
	if err != nil {
		// profiles/ is always present in the embedded tree
		panic(err)
	}
	return NewFSRepository(sub, "embedded")
}

// NewDirRepository serves the profiles in dir.
func NewDirRepository(dir string) (*FSRepository, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("opening profile directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", apperrors.ErrInvalidInput, dir)
	}
	return NewFSRepository(os.DirFS(dir), dir), nil
}

func (r *FSRepository) Describe() string {
	return r.desc
}

func (r *FSRepository) List() ([]string, error) {
	entries, err := fs.ReadDir(r.fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("listing profiles in %s: %w", r.desc, err)
	}

	seen := make(map[string]struct{})
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, err := FormatFromPath(entry.Name()); err != nil {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), path.Ext(entry.Name()))
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (r *FSRepository) Get(name string) (*models.Document, error) {
	if !ValidProfileName(name) {
		return nil, fmt.Errorf("%w: profile name %q", apperrors.ErrInvalidInput, name)
	}

	for _, ext := range extensions {
		file := name + ext
		data, err := fs.ReadFile(r.fsys, file)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("reading profile %s: %w", file, err)
		}

		format, err := FormatFromPath(file)
		if err != nil {
			return nil, err
		}
		doc, err := Parse(data, format)
		if err != nil {
			return nil, fmt.Errorf("profile %s: %w", name, err)
		}
		return doc, nil
	}

	return nil, fmt.Errorf("profile %q in %s: %w", name, r.desc, apperrors.ErrNotFound)
}

// ValidProfileName reports whether name can address a file in a flat
// profile directory.
func ValidProfileName(name string) bool {
	if name == "" || len(name) > 64 || name == "." || name == ".." {
		return false
	}
	for _, c := range name {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_', c == '.':
		default:
			return false
		}
	}
	return !strings.HasPrefix(name, ".")
}
