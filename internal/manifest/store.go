package manifest

import (
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	ferrors "git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
)

// FileName is the manifest's file name inside the state directory.
const FileName = ".build_manifest.json"

// Store loads and saves the manifest file.
type Store struct {
	path   string
	logger *slog.Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger sets the logger used for load diagnostics.
func WithLogger(l *slog.Logger) StoreOption {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewStore returns a store for the manifest at path.
func NewStore(path string, opts ...StoreOption) *Store {
	s := &Store{path: path, logger: slog.Default()}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Path returns the manifest location.
func (s *Store) Path() string { return s.path }

// Load reads the previous manifest. A missing, unreadable, malformed or schema-invalid file
// yields an empty manifest: losing build state only makes the build less incremental.
func (s *Store) Load() *Manifest {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Debug("No previous manifest, starting from scratch", logfields.Path(s.path))
		return New()
	}
	if err != nil {
		s.logger.Warn("Manifest unreadable, treating as empty", logfields.Path(s.path), logfields.Error(err))
		return New()
	}
	if err := Validate(data); err != nil {
		s.logger.Warn("Manifest does not match schema, treating as empty", logfields.Path(s.path), logfields.Error(err))
		return New()
	}

	m := New()
	if err := json.Unmarshal(data, m); err != nil {
		s.logger.Warn("Manifest malformed, treating as empty", logfields.Path(s.path), logfields.Error(err))
		return New()
	}
	m.normalize()
	return m
}

// Save writes m to a temporary file and renames it over the manifest, so a crash leaves
// either the old or the new manifest on disk.
func (s *Store) Save(m *Manifest) error {
	if m == nil {
		m = New()
	}
	m.normalize()

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryManifest, "encode manifest").
			Warning().
			FullRebuild().
			Build()
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryManifest, "create manifest directory").
			Warning().
			FullRebuild().
			WithContext("path", s.path).
			Build()
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryManifest, "write temp manifest").
			Warning().
			FullRebuild().
			WithContext("path", tmp).
			Build()
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return ferrors.WrapError(err, ferrors.CategoryManifest, "atomic rename manifest").
			Warning().
			FullRebuild().
			WithContext("path", s.path).
			Build()
	}
	return nil
}
