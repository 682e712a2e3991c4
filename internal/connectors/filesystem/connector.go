// Package filesystem reads Markdown articles from a local directory.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/studydeck/studydeck-cli/internal/core/domain"
	"github.com/studydeck/studydeck-cli/internal/core/ports/driven"
	"github.com/studydeck/studydeck-cli/internal/logger"
)

// Verify interface compliance.
var _ driven.DocumentSource = (*Connector)(nil)

// ArticleExt is the extension of buildable articles.
const ArticleExt = ".md"

// ErrClosed is returned by Watch after Close.
var ErrClosed = errors.New("connector closed")

// Connector lists and watches the articles in a single directory.
// Files starting with "_" are drafts and hidden files are ignored.
type Connector struct {
	rootPath string

	mu      sync.Mutex
	closed  bool
	watcher *fsnotify.Watcher
}

// New creates a connector for the directory at rootPath.
func New(rootPath string) *Connector {
	return &Connector{rootPath: rootPath}
}

// RootPath returns the watched directory.
func (c *Connector) RootPath() string {
	return c.rootPath
}

// List returns every article in the directory, sorted by file name.
func (c *Connector) List(ctx context.Context) ([]domain.RawDocument, error) {
	if err := c.checkRoot(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(c.rootPath)
	if err != nil {
		return nil, fmt.Errorf("read directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !isArticle(entry.Name()) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	docs := make([]domain.RawDocument, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		path := filepath.Join(c.rootPath, name)
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		docs = append(docs, domain.RawDocument{URI: path, Content: content})
	}

	logger.Debug("Listed %d articles in %s", len(docs), c.rootPath)
	return docs, nil
}

// Watch streams article changes until ctx is cancelled or Close is called.
// The returned channel is closed when watching stops.
func (c *Connector) Watch(ctx context.Context) (<-chan domain.RawDocumentChange, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrClosed
	}
	if err := c.checkRoot(); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(c.rootPath); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", c.rootPath, err)
	}
	c.watcher = watcher

	changes := make(chan domain.RawDocumentChange)
	go c.run(ctx, watcher, changes)

	return changes, nil
}

// run forwards filesystem events until the context ends or the watcher closes.
func (c *Connector) run(ctx context.Context, watcher *fsnotify.Watcher, changes chan<- domain.RawDocumentChange) {
	defer close(changes)
	defer watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			change := c.handleFsEvent(event)
			if change == nil {
				continue
			}
			select {
			case changes <- *change:
			case <-ctx.Done():
				return
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("watch %s: %v", c.rootPath, err)
		}
	}
}

// handleFsEvent converts a filesystem event into a document change.
// It returns nil for events that do not concern an article.
func (c *Connector) handleFsEvent(event fsnotify.Event) *domain.RawDocumentChange {
	if !isArticle(filepath.Base(event.Name)) {
		return nil
	}

	switch {
	case event.Has(fsnotify.Create):
		return c.readChange(event.Name, domain.ChangeCreated)
	case event.Has(fsnotify.Write):
		return c.readChange(event.Name, domain.ChangeUpdated)
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		return &domain.RawDocumentChange{
			Type:     domain.ChangeDeleted,
			Document: domain.RawDocument{URI: event.Name},
		}
	default:
		return nil
	}
}

// readChange loads the file behind a create or write event.
func (c *Connector) readChange(path string, changeType domain.ChangeType) *domain.RawDocumentChange {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		logger.Debug("Skipping %s: %v", path, err)
		return nil
	}
	return &domain.RawDocumentChange{
		Type:     changeType,
		Document: domain.RawDocument{URI: path, Content: content},
	}
}

// Close stops any active watch. It is safe to call more than once.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	if c.watcher != nil {
		err := c.watcher.Close()
		c.watcher = nil
		return err
	}
	return nil
}

func (c *Connector) checkRoot() error {
	info, err := os.Stat(c.rootPath)
	if err != nil {
		return fmt.Errorf("root path error: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("root path error: %s is not a directory", c.rootPath)
	}
	return nil
}

// isArticle reports whether a file name is a buildable article.
func isArticle(name string) bool {
	if strings.HasPrefix(name, "_") || isHidden(name) {
		return false
	}
	return strings.EqualFold(filepath.Ext(name), ArticleExt)
}

// isHidden reports whether any component of path starts with a dot.
// "." and ".." are not hidden.
func isHidden(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == "" || part == "." || part == ".." {
			continue
		}
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}
