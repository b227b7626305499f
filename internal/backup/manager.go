// Package backup keeps rotating full copies of the catalog database file.
//
// Every backup is a plain copy named
//
//	backup_<catalog>_<YYYY-MM-DD_HH-MM-SS><ext>
//
// where <catalog> and <ext> come from the database file name. Two backups
// taken within the same second share a name, so the later one overwrites the
// earlier. After each successful copy the oldest backups (by modification
// time, then by name) are removed until Retention remain.
package backup

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mrlokans/bookstore/internal/catalog"
	"github.com/mrlokans/bookstore/internal/logging"
)

// TimestampLayout is the second-resolution stamp embedded in backup names.
const TimestampLayout = "2006-01-02_15-04-05"

const defaultExt = ".db"

type Config struct {
	SourcePath string // live database file
	Dir        string // created on first backup
	Retention  int    // backups kept after pruning, at least 1
}

// Result describes one backup run.
type Result struct {
	Path   string
	Pruned []string
}

// Info describes a retained backup file.
type Info struct {
	Name    string
	Path    string
	Size    int64
	ModTime time.Time
}

type Option func(*Manager)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// Manager is safe for concurrent use.
type Manager struct {
	cfg Config
	now func() time.Time
	log *logrus.Logger

	mu sync.Mutex
}

func NewManager(cfg Config, log *logrus.Logger, opts ...Option) *Manager {
	if cfg.Retention < 1 {
		cfg.Retention = 1
	}
	if log == nil {
		log = logging.Discard()
	}
	m := &Manager{cfg: cfg, now: time.Now, log: log}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Retention returns the number of backups kept after pruning.
func (m *Manager) Retention() int {
	return m.cfg.Retention
}

// FileName returns the backup file name for a backup taken at t.
func (m *Manager) FileName(t time.Time) string {
	name, ext := m.nameParts()
	return fmt.Sprintf("backup_%s_%s%s", name, t.Format(TimestampLayout), ext)
}

// Run takes a backup and prunes old ones. Pruning only happens after a
// successful copy.
func (m *Manager) Run() (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	path, err := m.backupNow()
	if err != nil {
		return Result{}, err
	}

	pruned, err := m.prune()
	if err != nil {
		return Result{Path: path, Pruned: pruned}, fmt.Errorf("backup created but pruning failed: %w", err)
	}
	return Result{Path: path, Pruned: pruned}, nil
}

// BackupNow copies the live database into the backup directory and returns
// the path of the copy.
func (m *Manager) BackupNow() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.backupNow()
}

// Prune removes the oldest backups until at most Retention remain and returns
// the removed paths.
func (m *Manager) Prune() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.prune()
}

// List returns the current backups, newest first.
func (m *Manager) List() ([]Info, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	backups, err := m.scan()
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(backups)-1; i < j; i, j = i+1, j-1 {
		backups[i], backups[j] = backups[j], backups[i]
	}
	return backups, nil
}

// MutationHook adapts the manager to a catalog hook. Every event triggers a
// Run; the outcome is passed to report, which may be nil. Failures never
// reach the catalog operation.
func (m *Manager) MutationHook(report func(catalog.Event, Result, error)) catalog.Hook {
	return func(ev catalog.Event) {
		res, err := m.Run()
		if err != nil {
			m.log.WithError(err).WithField("event", ev.Kind).Warn("backup after mutation failed")
		}
		if report != nil {
			report(ev, res, err)
		}
	}
}

func (m *Manager) backupNow() (string, error) {
	if err := os.MkdirAll(m.cfg.Dir, 0o755); err != nil {
		return "", fmt.Errorf("ensure backup dir: %w", err)
	}

	stamp := m.now()
	dst := filepath.Join(m.cfg.Dir, m.FileName(stamp))
	if err := copyFile(m.cfg.SourcePath, dst); err != nil {
		return "", fmt.Errorf("copy %s: %w", m.cfg.SourcePath, err)
	}

	// Keep the modification time consistent with the name so pruning order
	// follows backup order even with an injected clock.
	if err := os.Chtimes(dst, stamp, stamp); err != nil {
		m.log.WithError(err).WithField("path", dst).Debug("could not set backup mtime")
	}

	m.log.WithField("path", dst).Info("backup created")
	return dst, nil
}

func (m *Manager) prune() ([]string, error) {
	backups, err := m.scan()
	if err != nil {
		return nil, err
	}

	var removed []string
	for len(backups) > m.cfg.Retention {
		oldest := backups[0]
		if err := os.Remove(oldest.Path); err != nil {
			return removed, fmt.Errorf("remove %s: %w", oldest.Path, err)
		}
		m.log.WithField("path", oldest.Path).Info("old backup removed")
		removed = append(removed, oldest.Path)
		backups = backups[1:]
	}
	return removed, nil
}

// scan lists backup files oldest first.
func (m *Manager) scan() ([]Info, error) {
	entries, err := os.ReadDir(m.cfg.Dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read backup dir: %w", err)
	}

	name, ext := m.nameParts()
	prefix := "backup_" + name + "_"

	var backups []Info
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), prefix) || !strings.HasSuffix(e.Name(), ext) {
			continue
		}
		fi, err := e.Info()
		if err != nil {
			// Removed between ReadDir and Info
			continue
		}
		backups = append(backups, Info{
			Name:    e.Name(),
			Path:    filepath.Join(m.cfg.Dir, e.Name()),
			Size:    fi.Size(),
			ModTime: fi.ModTime(),
		})
	}

	sort.SliceStable(backups, func(i, j int) bool {
		if !backups[i].ModTime.Equal(backups[j].ModTime) {
			return backups[i].ModTime.Before(backups[j].ModTime)
		}
		return backups[i].Name < backups[j].Name
	})
	return backups, nil
}

func (m *Manager) nameParts() (string, string) {
	base := filepath.Base(m.cfg.SourcePath)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)
	if ext == "" {
		ext = defaultExt
	}
	return name, ext
}

// copyFile copies a file from src to dst (overwrites dst if exists).
func copyFile(src, dst string) (err error) {
	sf, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sf.Close()

	df, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := df.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := io.Copy(df, sf); err != nil {
		return err
	}
	return df.Sync()
}
