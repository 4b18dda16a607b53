package overrides

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/spf13/afero"

	"reelcheck/internal/dates"
	"reelcheck/internal/logging"
)

// Catalog loads the user-maintained override file and reloads it when the
// file's modification time changes.
type Catalog struct {
	fs          afero.Fs
	path        string
	defaultYear int
	logger      *slog.Logger

	mu     sync.RWMutex
	loaded time.Time
	table  *Table
}

// NewCatalog constructs a catalog backed by the file at path on fs. A nil fs
// uses the OS filesystem.
func NewCatalog(fs afero.Fs, path string, defaultYear int, logger *slog.Logger) *Catalog {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Catalog{
		fs:          fs,
		path:        strings.TrimSpace(path),
		defaultYear: defaultYear,
		logger:      logger,
	}
}

// Path returns the backing file path.
func (c *Catalog) Path() string {
	if c == nil {
		return ""
	}
	return c.path
}

// Table returns the current override table. A missing file yields an empty
// table.
func (c *Catalog) Table() (*Table, error) {
	if c == nil || c.path == "" {
		return emptyTable(nil), nil
	}
	if err := c.ensureLoaded(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.table == nil {
		return emptyTable(c.logger), nil
	}
	return c.table, nil
}

func (c *Catalog) ensureLoaded() error {
	info, err := c.fs.Stat(c.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			c.logger.Info("no override file found", logging.String("path", c.path))
			c.mu.Lock()
			c.table = nil
			c.loaded = time.Time{}
			c.mu.Unlock()
			return nil
		}
		return fmt.Errorf("stat overrides: %w", err)
	}

	c.mu.RLock()
	alreadyLoaded := c.table != nil && !c.loaded.IsZero() && c.loaded.Equal(info.ModTime())
	c.mu.RUnlock()
	if alreadyLoaded {
		return nil
	}

	file, err := c.fs.Open(c.path)
	if err != nil {
		return fmt.Errorf("open overrides: %w", err)
	}
	defer file.Close()

	table, err := Parse(file, c.defaultYear, c.logger)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.table = table
	c.loaded = info.ModTime()
	c.mu.Unlock()
	c.logger.Info("loaded digital date overrides",
		logging.String("path", c.path),
		logging.Int("count", table.Len()),
		logging.Int("skipped", len(table.skipped)))
	return nil
}

func emptyTable(logger *slog.Logger) *Table {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Table{logger: logger, byKey: map[string]dates.Date{}}
}
