package services

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studydeck/studydeck-cli/internal/core/domain"
	"github.com/studydeck/studydeck-cli/internal/logger"
)

const articleA = `@meta {"id": "a", "title": "荀子《勸學》", "author": "荀子", "source": "荀子", "tags": ["儒家"], "importance": 5}

君子曰：學不可以已。

@quiz {"question": "出處？", "options": [{"text": "荀子", "correct": true}, {"text": "孟子"}]}

@dse-important
留意比喻論證。
`

const articleBroken = "@meta {\"id\": \"broken\",\n\n# Heading\n"

const articleDuplicate = `@meta {"id": "a", "title": "重複"}

重複的文章。
`

const articleBadQuiz = `@meta {"id": "c", "title": "練習"}

@quiz {"question": "沒有選項"}

@memory-card {"front": {"title": "正"}, "back": {"title": "反"}}
`

func raw(uri, content string) domain.RawDocument {
	return domain.RawDocument{URI: uri, Content: []byte(content)}
}

type buildFixture struct {
	svc       *BuildService
	source    *mockSource
	artifacts *mockArtifacts
	index     *mockIndexStore
	history   *mockHistoryStore
}

func newBuildFixture(settings domain.BuildSettings, docs ...domain.RawDocument) *buildFixture {
	f := &buildFixture{
		source:    &mockSource{docs: docs},
		artifacts: newMockArtifacts(),
		index:     &mockIndexStore{},
		history:   &mockHistoryStore{},
	}
	f.svc = NewBuildService(f.source, paragraphConverter{}, f.artifacts, f.index, settings)
	f.svc.SetHistoryStore(f.history)
	f.svc.now = func() time.Time { return time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC) }
	f.svc.newRunID = func() string { return "run-1" }
	return f
}

func TestBuildService_Build(t *testing.T) {
	f := newBuildFixture(domain.DefaultAppSettings().Build,
		raw("articles/a.md", articleA),
		raw("articles/b.md", "# 無元數據\n\n內容。\n"),
		raw("articles/broken.md", articleBroken),
		raw("articles/dup.md", articleDuplicate),
	)

	report, err := f.svc.Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "run-1", report.RunID)
	require.Len(t, report.Documents, 4)
	assert.Equal(t, 2, report.Indexed)

	a := report.Documents[0]
	assert.Equal(t, "a", a.ID)
	assert.Equal(t, domain.BuildPublished, a.Status)
	assert.Equal(t, 2, a.Blocks)

	b := report.Documents[1]
	assert.Equal(t, "b", b.ID, "id falls back to the file name")
	assert.Equal(t, domain.BuildPublished, b.Status)

	broken := report.Documents[2]
	assert.Equal(t, domain.BuildFailed, broken.Status)
	assert.ErrorIs(t, broken.Err, domain.ErrMetaParse)
	var metaErr *domain.MetaParseError
	require.True(t, errors.As(broken.Err, &metaErr))
	assert.Equal(t, "articles/broken.md", metaErr.Document)

	dup := report.Documents[3]
	assert.Equal(t, domain.BuildFailed, dup.Status)
	assert.Equal(t, "a", dup.ID)
	assert.ErrorIs(t, dup.Err, domain.ErrDuplicateDocument)

	// Index holds the published documents in document order.
	idx := f.index.index
	require.NotNil(t, idx)
	assert.Equal(t, "run-1", idx.BuildID)
	assert.Equal(t, 2, idx.Count)
	assert.Equal(t, "a", idx.Data[0].ID)
	assert.Equal(t, "a.html", idx.Data[0].URL)
	assert.Equal(t, 5.0, idx.Data[0].Importance)
	assert.Equal(t, "2026-03-14", idx.Data[0].Date)
	assert.Equal(t, domain.UnknownTitle, idx.Data[1].Title)

	// Artifacts carry the spliced fragments.
	require.Contains(t, f.artifacts.files, "a.html")
	html := f.artifacts.files["a.html"]
	assert.Contains(t, html, `class="quiz-question"`)
	assert.Contains(t, html, `class="dse-important"`)
	assert.NotContains(t, html, "<!--")
	assert.NotContains(t, html, "@quiz")
	assert.NotContains(t, f.artifacts.files, "broken.html")

	// The run is recorded.
	require.Len(t, f.history.runs, 1)
	assert.Equal(t, domain.BuildRun{
		ID:         "run-1",
		StartedAt:  report.StartedAt,
		FinishedAt: report.FinishedAt,
		Documents:  4,
		Indexed:    2,
		Failed:     2,
	}, f.history.runs[0])
}

func TestBuildService_BlockWarningsDoNotFailDocument(t *testing.T) {
	f := newBuildFixture(domain.DefaultAppSettings().Build, raw("c.md", articleBadQuiz))

	report, err := f.svc.Build(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Documents, 1)
	outcome := report.Documents[0]
	assert.Equal(t, domain.BuildPublished, outcome.Status)
	assert.Equal(t, 1, outcome.Blocks)
	require.Len(t, outcome.Warnings, 1)
	assert.ErrorIs(t, outcome.Warnings[0], domain.ErrBlockParse)
	assert.Equal(t, 1, report.WarningCount())

	html := f.artifacts.files["c.html"]
	assert.Contains(t, html, "@quiz", "malformed block stays visible")
	assert.Contains(t, html, `class="memory-card"`)
}

func TestBuildService_StrictMeta(t *testing.T) {
	settings := domain.DefaultAppSettings().Build
	settings.StrictMeta = true
	f := newBuildFixture(settings,
		raw("a.md", articleA),
		raw("partial.md", `@meta {"id": "p", "title": "只有標題"}`),
	)

	report, err := f.svc.Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, domain.BuildPublished, report.Documents[0].Status)
	failed := report.Documents[1]
	assert.Equal(t, domain.BuildFailed, failed.Status)
	assert.ErrorIs(t, failed.Err, domain.ErrMetaParse)
	assert.Contains(t, failed.Err.Error(), "author, source")
	assert.Equal(t, 1, report.Indexed)
}

func TestBuildService_ConverterAndArtifactErrors(t *testing.T) {
	t.Run("converter", func(t *testing.T) {
		f := newBuildFixture(domain.DefaultAppSettings().Build, raw("a.md", articleA))
		f.svc.converter = paragraphConverter{err: errors.New("bad markdown")}

		report, err := f.svc.Build(context.Background())
		require.NoError(t, err)
		assert.Equal(t, domain.BuildFailed, report.Documents[0].Status)
		assert.Contains(t, report.Documents[0].Err.Error(), "convert markdown")
		assert.Equal(t, 0, report.Indexed)
	})

	t.Run("artifact", func(t *testing.T) {
		f := newBuildFixture(domain.DefaultAppSettings().Build, raw("a.md", articleA))
		f.artifacts.writeErr = errors.New("read-only")

		report, err := f.svc.Build(context.Background())
		require.NoError(t, err)
		assert.Equal(t, domain.BuildFailed, report.Documents[0].Status)
		assert.Contains(t, report.Documents[0].Err.Error(), "write artifact")
	})
}

func TestBuildService_RemovesStaleArtifacts(t *testing.T) {
	f := newBuildFixture(domain.DefaultAppSettings().Build, raw("a.md", articleA))
	f.index.index = domain.NewIndex([]domain.IndexRecord{{ID: "a"}, {ID: "retired"}}, zeroTime, "old")
	f.artifacts.files["retired.html"] = "<p>old</p>"

	_, err := f.svc.Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"retired.html"}, f.artifacts.removed)
	assert.NotContains(t, f.artifacts.files, "retired.html")
	assert.Contains(t, f.artifacts.files, "a.html")
}

func TestBuildService_FatalErrors(t *testing.T) {
	t.Run("list", func(t *testing.T) {
		f := newBuildFixture(domain.DefaultAppSettings().Build)
		f.source.listErr = errors.New("permission denied")

		_, err := f.svc.Build(context.Background())
		assert.ErrorContains(t, err, "list documents")
	})

	t.Run("save", func(t *testing.T) {
		f := newBuildFixture(domain.DefaultAppSettings().Build, raw("a.md", articleA))
		f.index.saveErr = errors.New("disk full")

		_, err := f.svc.Build(context.Background())
		assert.ErrorContains(t, err, "save index")
		assert.Empty(t, f.history.runs)
	})

	t.Run("cancelled", func(t *testing.T) {
		f := newBuildFixture(domain.DefaultAppSettings().Build, raw("a.md", articleA))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := f.svc.Build(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestBuildService_HistoryFailureIgnored(t *testing.T) {
	f := newBuildFixture(domain.DefaultAppSettings().Build, raw("a.md", articleA))
	f.history.err = errors.New("locked")

	report, err := f.svc.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Indexed)
}

func TestBuildService_LogsStageTimings(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	logger.SetVerbose(true)
	defer func() {
		logger.SetVerbose(false)
		logger.SetOutput(os.Stderr)
	}()

	f := newBuildFixture(domain.DefaultAppSettings().Build, raw("a.md", articleA))
	_, err := f.svc.Build(context.Background())
	require.NoError(t, err)

	out := buf.String()
	for _, stage := range []string{"List", "Documents", "Index", "Build"} {
		assert.Contains(t, out, "[INFO] "+stage+" took ")
	}
}

func TestBuildService_History(t *testing.T) {
	ctx := context.Background()

	t.Run("returns recorded runs", func(t *testing.T) {
		f := newBuildFixture(domain.DefaultAppSettings().Build, raw("a.md", articleA))
		_, err := f.svc.Build(ctx)
		require.NoError(t, err)

		runs, err := f.svc.History(ctx, 10)
		require.NoError(t, err)
		require.Len(t, runs, 1)
		assert.Equal(t, "run-1", runs[0].ID)
	})

	t.Run("no history store", func(t *testing.T) {
		svc := NewBuildService(&mockSource{}, paragraphConverter{}, newMockArtifacts(), &mockIndexStore{},
			domain.DefaultAppSettings().Build)

		runs, err := svc.History(ctx, 10)
		require.NoError(t, err)
		assert.Empty(t, runs)
		assert.NotNil(t, runs)
	})

	t.Run("store error is wrapped", func(t *testing.T) {
		f := newBuildFixture(domain.DefaultAppSettings().Build)
		f.history.err = errors.New("locked")

		_, err := f.svc.History(ctx, 10)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "loading build history")
	})
}

func TestBuildService_Idempotent(t *testing.T) {
	f := newBuildFixture(domain.DefaultAppSettings().Build, raw("a.md", articleA), raw("c.md", articleBadQuiz))
	ctx := context.Background()

	_, err := f.svc.Build(ctx)
	require.NoError(t, err)
	first := *f.index.index
	firstHTML := f.artifacts.files["a.html"]

	_, err = f.svc.Build(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, *f.index.index)
	assert.Equal(t, firstHTML, f.artifacts.files["a.html"])
}

func TestBuildService_Watch(t *testing.T) {
	settings := domain.DefaultAppSettings().Build
	settings.WatchInterval = time.Millisecond
	f := newBuildFixture(settings, raw("a.md", articleA))
	f.source.changes = make(chan domain.RawDocumentChange, 4)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	builds := make(chan *domain.BuildReport, 4)
	done := make(chan error, 1)
	go func() {
		done <- f.svc.Watch(ctx, func(r *domain.BuildReport, err error) {
			assert.NoError(t, err)
			builds <- r
		})
	}()

	select {
	case r := <-builds:
		assert.Equal(t, 1, r.Indexed)
	case <-time.After(2 * time.Second):
		t.Fatal("initial build did not run")
	}

	f.source.changes <- domain.RawDocumentChange{Type: domain.ChangeUpdated, Document: raw("a.md", "")}

	select {
	case <-builds:
	case <-time.After(2 * time.Second):
		t.Fatal("rebuild did not run")
	}
	assert.Equal(t, 2, f.index.saveCount())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop")
	}
	assert.True(t, f.source.closed)
}

func TestBuildService_WatchUnsupported(t *testing.T) {
	f := newBuildFixture(domain.DefaultAppSettings().Build)

	err := f.svc.Watch(context.Background(), func(*domain.BuildReport, error) {})
	assert.ErrorContains(t, err, "watch source")
}

func TestFallbackID(t *testing.T) {
	tests := []struct {
		uri  string
		want string
	}{
		{"articles/xunzi.md", "xunzi"},
		{"/abs/path/mengzi-yu.md", "mengzi-yu"},
		{`C:\articles\zhuangzi.md`, "zhuangzi"},
		{"noext", "noext"},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			assert.Equal(t, tt.want, fallbackID(tt.uri))
		})
	}
}

func TestParagraphConverterKeepsPlaceholders(t *testing.T) {
	out, err := paragraphConverter{}.Convert("text\n\n<!-- QUIZ:0 -->\n")
	require.NoError(t, err)
	assert.True(t, strings.Contains(out, "<!-- QUIZ:0 -->\n"))
}
