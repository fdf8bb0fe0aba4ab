// Package assembly persists synthesised stage graphs as YAML manifests. The
// assembly directory is the hand-off point to the provisioning engine.
package assembly

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"gopkg.in/yaml.v3"

	"github.com/lite-lake/infra-siteops/internal/domain"
	"github.com/lite-lake/infra-siteops/internal/domain/graph"
	"github.com/lite-lake/infra-siteops/internal/domain/repository"
	"github.com/lite-lake/infra-siteops/internal/domain/retry"
	"github.com/lite-lake/infra-siteops/internal/infrastructure/logger"
)

const (
	lockFileName = ".siteops.lock"
	indexVersion = 1
)

// Index is the top-level manifest.yaml: one entry per synthesised stage in
// deployment order.
type Index struct {
	Version int          `yaml:"version"`
	Stack   string       `yaml:"stack"`
	Stages  []IndexEntry `yaml:"stages"`
}

type IndexEntry struct {
	Stage         string `yaml:"stage"`
	Environment   string `yaml:"environment"`
	File          string `yaml:"file"`
	Nodes         int    `yaml:"nodes"`
	SynthesizedAt string `yaml:"synthesized_at"`
}

type Store struct {
	dir       string
	stack     string
	flock     *flock.Flock
	lockRetry []retry.Option
	now       func() time.Time
}

type Option func(*Store)

// WithLockRetry tunes how long Save and Load wait for a concurrent run to
// release the assembly lock.
func WithLockRetry(opts ...retry.Option) Option {
	return func(s *Store) { s.lockRetry = append(s.lockRetry, opts...) }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func NewStore(dir, stack string, opts ...Option) *Store {
	s := &Store{
		dir:   dir,
		stack: stack,
		flock: flock.New(filepath.Join(dir, lockFileName)),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Dir() string { return s.dir }

// GraphPath is where the manifest of environment lives.
func (s *Store) GraphPath(environment string) string {
	return filepath.Join(s.dir, environment, s.stack+domain.GraphFileSuffix)
}

func (s *Store) IndexPath() string {
	return filepath.Join(s.dir, domain.AssemblyManifestFile)
}

func (s *Store) Load(ctx context.Context, environment string) (*graph.Manifest, error) {
	if _, err := os.Stat(s.dir); errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", domain.ErrStateNotFound, environment)
	}
	unlock, err := s.lock(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	return s.readManifest(environment)
}

// Save writes the manifest for one stage and records it in the index.
func (s *Store) Save(ctx context.Context, m *graph.Manifest) error {
	if m == nil || m.Environment == "" {
		return fmt.Errorf("%w: manifest environment", domain.ErrRequired)
	}
	if err := os.MkdirAll(filepath.Join(s.dir, m.Environment), domain.DirPermission); err != nil {
		return fmt.Errorf("creating assembly directory: %w: %w", domain.ErrStateWriteFailed, err)
	}

	unlock, err := s.lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshaling manifest for %s: %w: %w", m.Environment, domain.ErrStateSerializeFail, err)
	}
	path := s.GraphPath(m.Environment)
	if err := writeFileAtomic(path, data); err != nil {
		return err
	}

	idx, err := s.readIndex()
	if err != nil {
		return err
	}
	idx.upsert(IndexEntry{
		Stage:         m.Stage,
		Environment:   m.Environment,
		File:          filepath.ToSlash(filepath.Join(m.Environment, filepath.Base(path))),
		Nodes:         len(m.Nodes),
		SynthesizedAt: s.now().UTC().Format(time.RFC3339),
	})
	if err := s.writeIndex(idx); err != nil {
		return err
	}

	logger.Debug("assembly saved", "environment", m.Environment, "path", path, "nodes", len(m.Nodes))
	return nil
}

// Provision hands a stage to the engine by writing it into the assembly.
func (s *Store) Provision(ctx context.Context, m *graph.Manifest) error {
	return s.Save(ctx, m)
}

// Remove deletes the assembly of an environment that no longer has a stage.
func (s *Store) Remove(ctx context.Context, environment string) error {
	if _, err := os.Stat(s.dir); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	unlock, err := s.lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	if err := os.RemoveAll(filepath.Join(s.dir, environment)); err != nil {
		return fmt.Errorf("removing assembly %s: %w: %w", environment, domain.ErrStateWriteFailed, err)
	}
	idx, err := s.readIndex()
	if err != nil {
		return err
	}
	idx.remove(environment)
	return s.writeIndex(idx)
}

// Environments lists synthesised environments in index order.
func (s *Store) Environments(ctx context.Context) ([]string, error) {
	idx, err := s.Index(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(idx.Stages))
	for _, e := range idx.Stages {
		out = append(out, e.Environment)
	}
	return out, nil
}

func (s *Store) Index(ctx context.Context) (*Index, error) {
	if _, err := os.Stat(s.dir); errors.Is(err, fs.ErrNotExist) {
		return &Index{Version: indexVersion, Stack: s.stack}, nil
	}
	unlock, err := s.lock(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()
	return s.readIndex()
}

// lock takes the directory lock, retrying while another process holds it.
func (s *Store) lock(ctx context.Context) (func(), error) {
	opts := append([]retry.Option{
		retry.WithOperation("assembly lock"),
		retry.WithIsRetryable(func(err error) bool { return errors.Is(err, domain.ErrStateLocked) }),
	}, s.lockRetry...)

	err := retry.Do(ctx, func() error {
		locked, err := s.flock.TryLock()
		if err != nil {
			return fmt.Errorf("acquiring lock %s: %w", s.flock.Path(), err)
		}
		if !locked {
			return fmt.Errorf("%w: %s", domain.ErrStateLocked, s.flock.Path())
		}
		return nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	return func() {
		if err := s.flock.Unlock(); err != nil {
			logger.Warn("releasing assembly lock", "path", s.flock.Path(), "error", err)
		}
	}, nil
}

func (s *Store) readManifest(environment string) (*graph.Manifest, error) {
	path := s.GraphPath(environment)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrStateNotFound, environment)
		}
		return nil, fmt.Errorf("reading manifest %s: %w: %w", path, domain.ErrStateReadFailed, err)
	}

	var m graph.Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w: %w", path, domain.ErrStateSerializeFail, err)
	}
	return &m, nil
}

func (s *Store) readIndex() (*Index, error) {
	idx := &Index{Version: indexVersion, Stack: s.stack}
	data, err := os.ReadFile(s.IndexPath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return idx, nil
		}
		return nil, fmt.Errorf("reading index %s: %w: %w", s.IndexPath(), domain.ErrStateReadFailed, err)
	}
	if err := yaml.Unmarshal(data, idx); err != nil {
		return nil, fmt.Errorf("parsing index %s: %w: %w", s.IndexPath(), domain.ErrStateSerializeFail, err)
	}
	return idx, nil
}

func (s *Store) writeIndex(idx *Index) error {
	idx.Version = indexVersion
	idx.Stack = s.stack
	data, err := yaml.Marshal(idx)
	if err != nil {
		return fmt.Errorf("marshaling index: %w: %w", domain.ErrStateSerializeFail, err)
	}
	return writeFileAtomic(s.IndexPath(), data)
}

func (idx *Index) upsert(entry IndexEntry) {
	for i := range idx.Stages {
		if idx.Stages[i].Environment == entry.Environment {
			idx.Stages[i] = entry
			return
		}
	}
	idx.Stages = append(idx.Stages, entry)
}

func (idx *Index) remove(environment string) {
	kept := idx.Stages[:0]
	for _, e := range idx.Stages {
		if e.Environment != environment {
			kept = append(kept, e)
		}
	}
	idx.Stages = kept
}

func writeFileAtomic(path string, data []byte) error {
	tmpPath := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+".tmp")
	if err := os.WriteFile(tmpPath, data, domain.FilePermissionOwnerRW); err != nil {
		return fmt.Errorf("writing temp file %s: %w: %w", tmpPath, domain.ErrStateWriteFailed, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming %s to %s: %w: %w", tmpPath, path, domain.ErrStateWriteFailed, err)
	}
	return nil
}

var _ repository.AssemblyRepository = (*Store)(nil)
