// Package watcher imports health log files dropped into an inbox directory.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/amimagid/ami-super-app/internal/models"
	"github.com/amimagid/ami-super-app/internal/upload"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Subdirectories of the inbox that receive handled files.
const (
	ProcessedDir = "processed"
	FailedDir    = "failed"
)

// DefaultSettle is how long a file must be quiet before it is imported.
const DefaultSettle = 500 * time.Millisecond

// Importer runs one import. upload.Manager implements it.
type Importer interface {
	Import(ctx context.Context, fileName string, data []byte, opts upload.Options) (*models.ImportJob, error)
}

// Result describes one handled file.
type Result struct {
	Path  string
	Dest  string
	Job   *models.ImportJob
	Error error
}

// Watcher monitors an inbox directory and imports files matching a glob
// pattern such as "*.{csv,xlsx}".
type Watcher struct {
	dir      string
	pattern  string
	importer Importer
	opts     upload.Options
	settle   time.Duration
	log      *zap.Logger

	// Results receives every handled file when non-nil. Sends block.
	Results chan<- Result
}

// New creates a watcher for dir. The processed/ and failed/ subdirectories
// are created on demand.
func New(dir, pattern string, importer Importer, log *zap.Logger) (*Watcher, error) {
	if pattern == "" {
		pattern = "*.csv"
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid watch pattern %q", pattern)
	}
	if log == nil {
		log = zap.NewNop()
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return nil, fmt.Errorf("failed to create inbox: %w", err)
	}
	return &Watcher{
		dir:      abs,
		pattern:  pattern,
		importer: importer,
		settle:   DefaultSettle,
		log:      log.Named("watcher"),
	}, nil
}

// SetOptions sets the import options used for every file.
func (w *Watcher) SetOptions(opts upload.Options) {
	w.opts = opts
}

// SetSettle changes the quiet period before a file is imported.
func (w *Watcher) SetSettle(d time.Duration) {
	if d > 0 {
		w.settle = d
	}
}

// Dir returns the absolute inbox path.
func (w *Watcher) Dir() string {
	return w.dir
}

// Matches reports whether path is a file directly inside the inbox whose
// name matches the pattern.
func (w *Watcher) Matches(path string) bool {
	if filepath.Dir(path) != w.dir {
		return false
	}
	ok, err := doublestar.Match(w.pattern, filepath.Base(path))
	return err == nil && ok
}

// Scan imports every matching file already in the inbox, oldest name
// first, and returns how many were handled.
func (w *Watcher) Scan(ctx context.Context) (int, error) {
	matches, err := doublestar.Glob(os.DirFS(w.dir), w.pattern, doublestar.WithFilesOnly())
	if err != nil {
		return 0, fmt.Errorf("failed to scan inbox: %w", err)
	}
	sort.Strings(matches)

	n := 0
	for _, m := range matches {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		w.handle(ctx, filepath.Join(w.dir, m))
		n++
	}
	return n, nil
}

// Run scans the inbox once and then imports new files as they settle. It
// blocks until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("cannot watch %s: %w", w.dir, err)
	}
	w.log.Info("watching inbox", zap.String("dir", w.dir), zap.String("pattern", w.pattern))

	if _, err := w.Scan(ctx); err != nil && !errors.Is(err, context.Canceled) {
		w.log.Warn("initial scan failed", zap.Error(err))
	}

	// Writes arrive in bursts; a file is imported once it has been quiet
	// for the settle period.
	pending := make(map[string]time.Time)
	tick := time.NewTicker(w.settle / 2)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 || !w.Matches(ev.Name) {
				continue
			}
			pending[ev.Name] = time.Now()
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watcher error", zap.Error(err))
		case now := <-tick.C:
			var ready []string
			for path, last := range pending {
				if now.Sub(last) >= w.settle {
					ready = append(ready, path)
				}
			}
			sort.Strings(ready)
			for _, path := range ready {
				delete(pending, path)
				w.handle(ctx, path)
			}
		}
	}
}

func (w *Watcher) handle(ctx context.Context, path string) {
	res := w.process(ctx, path)
	if w.Results != nil {
		select {
		case w.Results <- res:
		case <-ctx.Done():
		}
	}
}

// process imports one file and moves it to processed/ or failed/.
func (w *Watcher) process(ctx context.Context, path string) Result {
	res := Result{Path: path}
	log := w.log.With(zap.String("file", filepath.Base(path)))

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			res.Error = err
			return res
		}
		res.Error = fmt.Errorf("failed to read %s: %w", path, err)
	} else {
		res.Job, res.Error = w.importer.Import(ctx, filepath.Base(path), data, w.opts)
	}

	sub := ProcessedDir
	if res.Error != nil {
		sub = FailedDir
		log.Warn("import failed", zap.Error(res.Error))
	} else {
		log.Info("imported",
			zap.Int("inserted", res.Job.Inserted),
			zap.Int("updated", res.Job.Updated),
			zap.Int("skipped", res.Job.Skipped))
	}

	dest, err := moveInto(path, filepath.Join(w.dir, sub))
	if err != nil {
		log.Error("failed to move file", zap.String("to", sub), zap.Error(err))
		return res
	}
	res.Dest = dest
	return res
}

// moveInto renames path into dir. An existing file of the same name is
// kept and the new one gets a timestamp suffix.
func moveInto(path, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	name := filepath.Base(path)
	dest := filepath.Join(dir, name)
	if _, err := os.Stat(dest); err == nil {
		ext := filepath.Ext(name)
		stamp := time.Now().Format("20060102-150405.000")
		dest = filepath.Join(dir, fmt.Sprintf("%s-%s%s", strings.TrimSuffix(name, ext), stamp, ext))
	}
	if err := os.Rename(path, dest); err != nil {
		return "", err
	}
	return dest, nil
}
