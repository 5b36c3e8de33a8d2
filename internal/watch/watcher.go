package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/yildizm/SiteLens/internal/element"
	"github.com/yildizm/SiteLens/internal/logger"
)

// Update is delivered after every reload attempt
type Update struct {
	Tree *element.Tree
	Err  error
}

// Watcher reloads an element tree file when it changes on disk
type Watcher struct {
	path    string
	fsw     *fsnotify.Watcher
	updates chan Update
	cancel  context.CancelFunc
	done    chan struct{}
	once    sync.Once
	log     *logger.Logger
}

// New starts watching path. The parent directory is watched so editors that
// replace the file on save are still seen.
func New(path string, log *logger.Logger) (*Watcher, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("empty file path")
	}
	if log == nil {
		log = logger.Nop()
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	fsw, err := createWatcher(filepath.Dir(abs))
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		path:    abs,
		fsw:     fsw,
		updates: make(chan Update),
		cancel:  cancel,
		done:    make(chan struct{}),
		log:     log.WithComponent("watch"),
	}
	go w.run(ctx)

	w.log.Debug("watching %s", abs)
	return w, nil
}

// createWatcher creates a file system watcher on dir
func createWatcher(dir string) (*fsnotify.Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("failed to watch directory: %w", err)
	}

	return fsw, nil
}

// Path returns the absolute path being watched
func (w *Watcher) Path() string {
	return w.path
}

// Next blocks until the next update or until the watcher is closed
func (w *Watcher) Next() (Update, bool) {
	select {
	case u := <-w.updates:
		return u, true
	case <-w.done:
		return Update{}, false
	}
}

// Close stops the watch loop. It is safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		w.cancel()
		err = w.fsw.Close()
		<-w.done
	})
	return err
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.done)

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			tree, err := element.LoadTree(w.path)
			if err != nil {
				w.log.WarnWithFields("reload failed", []logger.Field{logger.Error(err)})
			} else {
				w.log.InfoWithFields("tree reloaded", []logger.Field{logger.Count(tree.Len())})
			}
			if !w.send(ctx, Update{Tree: tree, Err: err}) {
				return
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			if !w.send(ctx, Update{Err: fmt.Errorf("watcher error: %w", err)}) {
				return
			}
		}
	}
}

// relevant reports whether event touches the watched file's content
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}

func (w *Watcher) send(ctx context.Context, u Update) bool {
	select {
	case w.updates <- u:
		return true
	case <-ctx.Done():
		return false
	}
}
