package am

import (
	"context"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	"github.com/teranos/chartparse/errors"
	"github.com/teranos/chartparse/logger"
)

const defaultDebounce = 500 * time.Millisecond

// ReloadCallback receives the freshly loaded config. An error is logged and
// does not stop the remaining callbacks.
type ReloadCallback func(*Config) error

// ConfigWatcher re-reads configuration when am.toml or a watched data file
// (the grammar corpus) changes. Bursts of events collapse into one reload
// after the debounce period, and reloads are throttled by an optional
// per-minute rate.
type ConfigWatcher struct {
	paths    []string
	fsw      *fsnotify.Watcher
	limiter  *rate.Limiter
	ownWrite atomic.Bool
	started  atomic.Bool

	mu        sync.Mutex
	debounce  time.Duration
	load      func() (*Config, error)
	callbacks []ReloadCallback

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

var (
	globalWatcher   *ConfigWatcher
	globalWatcherMu sync.Mutex
)

// NewConfigWatcher creates a watcher over paths. reloadsPerMinute <= 0
// disables throttling.
func NewConfigWatcher(reloadsPerMinute int, paths ...string) (*ConfigWatcher, error) {
	if len(paths) == 0 {
		return nil, errors.New("config watcher needs at least one path")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}
	for _, p := range paths {
		if err := fsw.Add(p); err != nil {
			fsw.Close()
			return nil, errors.Wrapf(err, "failed to watch %s", p)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	cw := &ConfigWatcher{
		paths:    paths,
		fsw:      fsw,
		debounce: defaultDebounce,
		load:     reloadGlobal,
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	if reloadsPerMinute > 0 {
		cw.limiter = rate.NewLimiter(rate.Limit(float64(reloadsPerMinute)/60.0), 1)
	}
	return cw, nil
}

func reloadGlobal() (*Config, error) {
	Reset()
	return Load()
}

// SetLoader replaces how the config is re-read on change
func (cw *ConfigWatcher) SetLoader(load func() (*Config, error)) {
	cw.mu.Lock()
	cw.load = load
	cw.mu.Unlock()
}

// SetDebounce changes the quiet period before a reload. Call before Start.
func (cw *ConfigWatcher) SetDebounce(d time.Duration) {
	cw.mu.Lock()
	cw.debounce = d
	cw.mu.Unlock()
}

func (cw *ConfigWatcher) OnReload(callback ReloadCallback) {
	cw.mu.Lock()
	cw.callbacks = append(cw.callbacks, callback)
	cw.mu.Unlock()
}

// MarkOwnWrite suppresses the reload for the next change event, so that
// writes made by am itself do not bounce back as reloads.
func (cw *ConfigWatcher) MarkOwnWrite() {
	cw.ownWrite.Store(true)
}

func (cw *ConfigWatcher) checkOwnWrite() bool {
	return cw.ownWrite.CompareAndSwap(true, false)
}

// Start runs the event loop in the background until Stop.
func (cw *ConfigWatcher) Start() {
	cw.mu.Lock()
	debounce := cw.debounce
	cw.mu.Unlock()
	cw.started.Store(true)
	go cw.run(debounce)
}

func (cw *ConfigWatcher) run(debounce time.Duration) {
	defer close(cw.done)

	timer := time.NewTimer(debounce)
	timer.Stop()
	pending := false

	for {
		select {
		case <-cw.ctx.Done():
			timer.Stop()
			return

		case ev, ok := <-cw.fsw.Events:
			if !ok {
				return
			}
			if !relevant(ev) {
				continue
			}
			if cw.checkOwnWrite() {
				logger.Debugw("Config watcher ignoring own write", logger.FieldFile, ev.Name)
				continue
			}
			logger.Infow("Config watcher detected change", logger.FieldFile, ev.Name, "op", ev.Op.String())
			if pending && !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(debounce)
			pending = true

		case <-timer.C:
			pending = false
			if cw.limiter != nil {
				if err := cw.limiter.Wait(cw.ctx); err != nil {
					return
				}
			}
			if err := cw.reload(); err != nil {
				logger.Errorw("Config reload failed", logger.FieldError, err)
			}

		case err, ok := <-cw.fsw.Errors:
			if !ok {
				return
			}
			logger.Warnw("Config watcher error", logger.FieldError, err)
		}
	}
}

// relevant reports whether ev should trigger a reload. Backup rotations
// written by persist are ignored.
func relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		return false
	}
	return !isBackupFile(ev.Name)
}

func (cw *ConfigWatcher) reload() error {
	cw.mu.Lock()
	load := cw.load
	callbacks := append([]ReloadCallback(nil), cw.callbacks...)
	cw.mu.Unlock()

	cfg, err := load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}
	logger.Infow("Config reloaded", "paths", cw.paths, "callbacks", len(callbacks))

	for _, cb := range callbacks {
		if err := cb(cfg); err != nil {
			logger.Warnw("Config reload callback failed", logger.FieldError, err)
		}
	}
	return nil
}

// Stop ends the event loop and releases the underlying watch.
func (cw *ConfigWatcher) Stop() error {
	cw.cancel()
	err := cw.fsw.Close()
	if cw.started.Load() {
		<-cw.done
	}
	return err
}

// isBackupFile matches the .back1..3 rotations made by persist
func isBackupFile(path string) bool {
	switch filepath.Ext(path) {
	case ".back1", ".back2", ".back3":
		return true
	}
	return false
}

// SetGlobalWatcher registers the watcher that persist notifies before it
// writes a config file.
func SetGlobalWatcher(watcher *ConfigWatcher) {
	globalWatcherMu.Lock()
	defer globalWatcherMu.Unlock()
	globalWatcher = watcher
}

func GetGlobalWatcher() *ConfigWatcher {
	globalWatcherMu.Lock()
	defer globalWatcherMu.Unlock()
	return globalWatcher
}
