// Package bootstrap builds the adapters and the core from a loaded config.
package bootstrap

import (
	"errors"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"vired/internal/adapters/editor"
	"vired/internal/adapters/filesystem"
	"vired/internal/adapters/git"
	"vired/internal/adapters/sqlite"
	"vired/internal/adapters/watcher"
	"vired/internal/application"
	"vired/internal/config"
	"vired/internal/logging"
	"vired/internal/ports"
)

// Options selects the optional parts a binary needs
type Options struct {
	// Watch starts the directory watcher when the config enables it
	Watch bool
}

// Runtime holds everything a binary talks to. Catalog, Watcher and VCS are
// nil when disabled or unavailable.
type Runtime struct {
	Config    *config.Config
	Fs        afero.Fs
	Lister    *filesystem.Lister
	Trash     *filesystem.Trash
	Catalog   *sqlite.Catalog
	Watcher   *watcher.Watcher
	VCS       ports.VersionControl
	Editor    *editor.Opener
	Sessions  *application.SessionManager
	Refresher *application.Refresher
}

// New wires a Runtime. A trash catalog or watcher that fails to start is
// logged and left out; vired works without both.
func New(cfg *config.Config, opts Options) *Runtime {
	logger := logging.Named("bootstrap")
	fs := afero.NewOsFs()

	r := &Runtime{
		Config: cfg,
		Fs:     fs,
		Lister: filesystem.NewLister(fs, filesystem.WithHidden(cfg.ShowHidden)),
		Editor: editor.NewOpener(editor.WithCommand(cfg.Editor)),
	}

	var trashOpts []filesystem.TrashOption
	if cfg.TrashIndex {
		catalog, err := sqlite.Open(cfg.TrashCatalog)
		if err != nil {
			logger.Warn("trash catalog disabled", zap.String("path", cfg.TrashCatalog), zap.Error(err))
		} else {
			r.Catalog = catalog
			trashOpts = append(trashOpts, filesystem.WithIndex(catalog))
		}
	}
	r.Trash = filesystem.NewTrash(fs, cfg.TrashDir, trashOpts...)

	if cfg.VCSEnabled {
		if g := git.New(); g.Available() {
			r.VCS = g
		} else {
			logger.Debug("git not found, version control disabled")
		}
	}

	var suppressor ports.ChangeSuppressor
	if opts.Watch && cfg.WatchEnabled {
		w, err := watcher.New(cfg.WatchDebounce)
		if err != nil {
			logger.Warn("directory watcher disabled", zap.Error(err))
		} else {
			r.Watcher = w
			suppressor = w
		}
	}

	r.Sessions = application.NewSessionManager(application.SessionConfig{
		Fs:          fs,
		Lister:      r.Lister,
		Trash:       r.Trash,
		VCS:         r.VCS,
		VCSTimeout:  cfg.VCSTimeout,
		Suppressor:  suppressor,
		Layout:      cfg.Layout,
		HeaderLines: application.DefaultHeaderLines,
		HistoryMax:  cfg.HistoryMax,
	})
	r.Refresher = application.NewRefresher(r.Lister, r.VCS, cfg.VCSTimeout)
	return r
}

// Notifier returns the watcher as a ports.ChangeNotifier, or nil
func (r *Runtime) Notifier() ports.ChangeNotifier {
	if r.Watcher == nil {
		return nil
	}
	return r.Watcher
}

// Close stops background work and closes the catalog
func (r *Runtime) Close() error {
	r.Refresher.Stop()
	var errs []error
	if r.Watcher != nil {
		errs = append(errs, r.Watcher.Close())
	}
	if r.Catalog != nil {
		errs = append(errs, r.Catalog.Close())
	}
	return errors.Join(errs...)
}
