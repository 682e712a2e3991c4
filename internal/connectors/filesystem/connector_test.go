package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studydeck/studydeck-cli/internal/core/domain"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNew(t *testing.T) {
	connector := New("/tmp/articles")

	require.NotNil(t, connector)
	assert.Equal(t, "/tmp/articles", connector.RootPath())
}

func TestConnector_List(t *testing.T) {
	t.Run("lists articles sorted by name", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "b-mengzi.md", "孟子")
		writeFile(t, dir, "a-xunzi.md", "荀子")
		writeFile(t, dir, "C-ZHUANGZI.MD", "莊子")

		docs, err := New(dir).List(context.Background())
		require.NoError(t, err)
		require.Len(t, docs, 3)

		assert.Equal(t, filepath.Join(dir, "C-ZHUANGZI.MD"), docs[0].URI)
		assert.Equal(t, filepath.Join(dir, "a-xunzi.md"), docs[1].URI)
		assert.Equal(t, "荀子", string(docs[1].Content))
		assert.Equal(t, filepath.Join(dir, "b-mengzi.md"), docs[2].URI)
	})

	t.Run("skips drafts hidden files and other formats", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "_draft.md", "draft")
		writeFile(t, dir, ".hidden.md", "hidden")
		writeFile(t, dir, "notes.txt", "notes")
		writeFile(t, dir, "kept.md", "kept")
		require.NoError(t, os.Mkdir(filepath.Join(dir, "folder.md"), 0755))

		docs, err := New(dir).List(context.Background())
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, filepath.Join(dir, "kept.md"), docs[0].URI)
	})

	t.Run("empty directory", func(t *testing.T) {
		docs, err := New(t.TempDir()).List(context.Background())
		require.NoError(t, err)
		assert.Empty(t, docs)
	})

	t.Run("missing directory", func(t *testing.T) {
		_, err := New("/non/existent/path").List(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "root path error")
	})

	t.Run("root is a file", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "file.md", "x")
		_, err := New(path).List(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not a directory")
	})

	t.Run("cancelled context", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "a.md", "a")

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := New(dir).List(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestConnector_Watch(t *testing.T) {
	t.Run("detects new articles", func(t *testing.T) {
		dir := t.TempDir()
		connector := New(dir)
		defer connector.Close()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		changes, err := connector.Watch(ctx)
		require.NoError(t, err)

		go func() {
			time.Sleep(50 * time.Millisecond)
			os.WriteFile(filepath.Join(dir, "new.md"), []byte("新"), 0644)
		}()

		select {
		case change := <-changes:
			assert.Contains(t, change.Document.URI, "new.md")
			assert.NotEqual(t, domain.ChangeDeleted, change.Type)
		case <-time.After(2 * time.Second):
			t.Fatal("timeout waiting for file change event")
		}
	})

	t.Run("detects deletions", func(t *testing.T) {
		dir := t.TempDir()
		path := writeFile(t, dir, "gone.md", "舊")
		connector := New(dir)
		defer connector.Close()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		changes, err := connector.Watch(ctx)
		require.NoError(t, err)

		go func() {
			time.Sleep(50 * time.Millisecond)
			os.Remove(path)
		}()

		select {
		case change := <-changes:
			assert.Equal(t, domain.ChangeDeleted, change.Type)
			assert.Equal(t, path, change.Document.URI)
		case <-time.After(2 * time.Second):
			t.Fatal("timeout waiting for file deletion event")
		}
	})

	t.Run("closes channel when context is cancelled", func(t *testing.T) {
		connector := New(t.TempDir())
		defer connector.Close()

		ctx, cancel := context.WithCancel(context.Background())
		changes, err := connector.Watch(ctx)
		require.NoError(t, err)

		cancel()

		select {
		case _, ok := <-changes:
			assert.False(t, ok)
		case <-time.After(time.Second):
			t.Fatal("channel did not close after context cancellation")
		}
	})

	t.Run("closes channel when connector is closed", func(t *testing.T) {
		connector := New(t.TempDir())

		changes, err := connector.Watch(context.Background())
		require.NoError(t, err)
		require.NoError(t, connector.Close())

		select {
		case _, ok := <-changes:
			assert.False(t, ok)
		case <-time.After(time.Second):
			t.Fatal("channel did not close after Close")
		}
	})

	t.Run("returns error for missing directory", func(t *testing.T) {
		changes, err := New("/non/existent/path").Watch(context.Background())
		assert.Error(t, err)
		assert.Nil(t, changes)
		assert.Contains(t, err.Error(), "root path error")
	})

	t.Run("returns error when connector is closed", func(t *testing.T) {
		connector := New(t.TempDir())
		require.NoError(t, connector.Close())

		changes, err := connector.Watch(context.Background())
		assert.ErrorIs(t, err, ErrClosed)
		assert.Nil(t, changes)
	})
}

func TestConnector_Close(t *testing.T) {
	connector := New(t.TempDir())

	assert.NoError(t, connector.Close())
	assert.NoError(t, connector.Close())
	assert.NoError(t, connector.Close())
}

func TestIsArticle(t *testing.T) {
	tests := []struct {
		name     string
		expected bool
	}{
		{"article.md", true},
		{"ARTICLE.MD", true},
		{"勸學.md", true},
		{"_draft.md", false},
		{".hidden.md", false},
		{"notes.txt", false},
		{"md", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, isArticle(tt.name))
		})
	}
}

func TestIsHidden(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected bool
	}{
		{"hidden file", ".hidden", true},
		{"hidden in path", "path/to/.hidden", true},
		{"hidden directory", "/path/.hidden/file.md", true},
		{"git directory", "dir/.git/config", true},
		{"plain file", "file.md", false},
		{"nested file", "path/to/file.md", false},
		{"dot", ".", false},
		{"dot dot", "..", false},
		{"current dir segment", "path/./file", false},
		{"parent dir segment", "path/../file", false},
		{"empty", "", false},
		{"root", "/", false},
		{"dot inside name", "file.hidden", false},
		{"multiple hidden", "/a/.b/.c/file", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, isHidden(tt.path))
		})
	}
}

// TestHandleFsEvent tests the handleFsEvent function with various event types.
func TestHandleFsEvent(t *testing.T) {
	tests := []struct {
		name           string
		file           string
		setupFile      bool
		setupDir       bool
		operation      fsnotify.Op
		expectedChange bool
		expectedType   domain.ChangeType
	}{
		{"create file", "a.md", true, false, fsnotify.Create, true, domain.ChangeCreated},
		{"write file", "a.md", true, false, fsnotify.Write, true, domain.ChangeUpdated},
		{"write with chmod", "a.md", true, false, fsnotify.Write | fsnotify.Chmod, true, domain.ChangeUpdated},
		{"remove file", "a.md", false, false, fsnotify.Remove, true, domain.ChangeDeleted},
		{"rename file", "a.md", false, false, fsnotify.Rename, true, domain.ChangeDeleted},
		{"chmod only", "a.md", true, false, fsnotify.Chmod, false, 0},
		{"create directory", "dir.md", false, true, fsnotify.Create, false, 0},
		{"create vanished file", "a.md", false, false, fsnotify.Create, false, 0},
		{"hidden file", ".a.md", true, false, fsnotify.Write, false, 0},
		{"draft file", "_a.md", true, false, fsnotify.Write, false, 0},
		{"non article", "a.txt", true, false, fsnotify.Create, false, 0},
		{"non article remove", "a.txt", false, false, fsnotify.Remove, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			eventPath := filepath.Join(dir, tt.file)
			if tt.setupDir {
				require.NoError(t, os.Mkdir(eventPath, 0755))
			} else if tt.setupFile {
				writeFile(t, dir, tt.file, "content")
			}

			change := New(dir).handleFsEvent(fsnotify.Event{Name: eventPath, Op: tt.operation})

			if !tt.expectedChange {
				assert.Nil(t, change)
				return
			}
			require.NotNil(t, change)
			assert.Equal(t, tt.expectedType, change.Type)
			assert.Equal(t, eventPath, change.Document.URI)
			if tt.expectedType != domain.ChangeDeleted {
				assert.Equal(t, "content", string(change.Document.Content))
			} else {
				assert.Empty(t, change.Document.Content)
			}
		})
	}
}
