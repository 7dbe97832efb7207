package articles

import (
	"context"
	"errors"
	"io/fs"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/go-cmp/cmp"
)

func titles(list []*Article) []string {
	out := make([]string, 0, len(list))
	for _, article := range list {
		out = append(out, article.Title)
	}
	return out
}

func TestLoadArticlesFromDirectory(t *testing.T) {
	list, err := LoadArticles(context.Background(), "testdata/blog")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	want := []string{"On Go", "Delimited Front Matter", "Hello World"}
	if diff := cmp.Diff(want, titles(list)); diff != "" {
		t.Fatalf("unexpected order (-want +got):\n%s", diff)
	}

	onGo := list[0]
	if !onGo.WasEdited() {
		t.Fatal("expected On Go to carry an edited timestamp")
	}
	if tags, _ := onGo.Meta("tags"); tags != "go, web" {
		t.Fatalf("expected tags extra, got %q", tags)
	}
	if onGo.Path != "on-go.md" {
		t.Fatalf("expected relative path, got %q", onGo.Path)
	}
	if list[2].WasEdited() {
		t.Fatal("expected Hello World without edited timestamp")
	}
}

func TestLoaderOrdersMostRecentFirst(t *testing.T) {
	fsys := fstest.MapFS{
		"a.md": {Data: []byte("title: Old\ndate: 2019-03-03\n\nold")},
		"b.md": {Data: []byte("title: Newest\ndate: 2021-06-01\n\nnew")},
		"c.md": {Data: []byte("title: Middle\ndate: 2020-01-01\n\nmid")},
	}

	list, err := NewLoader(fsys, LoaderConfig{}).Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	want := []string{"Newest", "Middle", "Old"}
	if diff := cmp.Diff(want, titles(list)); diff != "" {
		t.Fatalf("unexpected order (-want +got):\n%s", diff)
	}
	for i := 1; i < len(list); i++ {
		if list[i].Date.After(list[i-1].Date) {
			t.Fatalf("article %d is newer than its predecessor", i)
		}
	}
}

func TestLoaderKeepsFileOrderForEqualDates(t *testing.T) {
	fsys := fstest.MapFS{
		"b.md": {Data: []byte("title: Second\ndate: 2020-01-01\n\nx")},
		"a.md": {Data: []byte("title: First\ndate: 2020-01-01\n\nx")},
		"c.md": {Data: []byte("title: Third\ndate: 2020-01-01\n\nx")},
	}

	list, err := NewLoader(fsys, LoaderConfig{}).Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff([]string{"First", "Second", "Third"}, titles(list)); diff != "" {
		t.Fatalf("unexpected order (-want +got):\n%s", diff)
	}
}

func TestLoaderEmptyDirectory(t *testing.T) {
	list, err := NewLoader(fstest.MapFS{}, LoaderConfig{}).Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected no articles, got %d", len(list))
	}
}

func TestLoaderHonoursPattern(t *testing.T) {
	fsys := fstest.MapFS{
		"post.md":       {Data: []byte("title: Markdown\ndate: 2020-01-01\n\nx")},
		"post.markdown": {Data: []byte("title: Long\ndate: 2020-01-02\n\nx")},
		"README":        {Data: []byte("no metadata here")},
	}

	list, err := NewLoader(fsys, LoaderConfig{Pattern: "*.markdown"}).Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff([]string{"Long"}, titles(list)); diff != "" {
		t.Fatalf("unexpected articles (-want +got):\n%s", diff)
	}
}

func TestLoaderUsesConfiguredLocation(t *testing.T) {
	loc := time.FixedZone("EST", -5*60*60)
	fsys := fstest.MapFS{
		"a.md": {Data: []byte("title: Zoned\ndate: 2020-01-01 00:00\n\nx")},
	}

	list, err := NewLoader(fsys, LoaderConfig{Location: loc}).Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := time.Date(2020, 1, 1, 5, 0, 0, 0, time.UTC)
	if !list[0].Date.Equal(want) {
		t.Fatalf("expected %s, got %s", want, list[0].Date.UTC())
	}
}

func TestLoadArticlesMissingDirectory(t *testing.T) {
	_, err := LoadArticles(context.Background(), "testdata/does-not-exist")
	if err == nil {
		t.Fatal("expected error for missing directory")
	}

	var ioErr *IOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("expected *IOError, got %T: %v", err, err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist in chain, got %v", err)
	}
	if !goerrors.IsCategory(err, goerrors.CategoryInternal) {
		t.Fatalf("expected internal category, got %v", err)
	}
}

func TestLoaderFailsWholeLoadOnMalformedFile(t *testing.T) {
	list, err := LoadArticles(context.Background(), "testdata/broken")
	if err == nil {
		t.Fatalf("expected parse failure, got %d articles", len(list))
	}
	if list != nil {
		t.Fatal("expected no partial result")
	}

	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %T: %v", err, err)
	}
	if parseErr.Path != "no-separator.md" {
		t.Fatalf("expected failing path no-separator.md, got %q", parseErr.Path)
	}
	if !errors.Is(err, ErrNoSeparator) {
		t.Fatalf("expected ErrNoSeparator, got %v", err)
	}
}

func TestLoaderStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLoader(fstest.MapFS{
		"a.md": {Data: []byte("title: A\ndate: 2020-01-01\n\nx")},
	}, LoaderConfig{}).Load(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestLoaderIsStateless(t *testing.T) {
	fsys := fstest.MapFS{
		"a.md": {Data: []byte("title: A\ndate: 2020-01-01\n\nx")},
	}
	loader := NewLoader(fsys, LoaderConfig{})

	first, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("first load: %v", err)
	}

	fsys["b.md"] = &fstest.MapFile{Data: []byte("title: B\ndate: 2021-01-01\n\ny")}
	second, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("second load: %v", err)
	}

	if len(first) != 1 || len(second) != 2 {
		t.Fatalf("expected 1 then 2 articles, got %d then %d", len(first), len(second))
	}
	if second[0].Title != "B" {
		t.Fatalf("expected newly added article first, got %q", second[0].Title)
	}
}

func TestLoaderConcurrentLoads(t *testing.T) {
	fsys := fstest.MapFS{
		"a.md": {Data: []byte("title: Alpha\ndate: 2020-01-01\n\nfirst")},
		"b.md": {Data: []byte("---\ntitle: Beta\ndate: 2022-01-01\n---\n\nsecond")},
		"c.md": {Data: []byte("title: Gamma\ndate: 2021-01-01\n\nthird")},
	}
	loader := NewLoader(fsys, LoaderConfig{})
	want := []string{"Beta", "Gamma", "Alpha"}

	const workers = 32
	results := make([][]*Article, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = loader.Load(context.Background())
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		if errs[i] != nil {
			t.Fatalf("load %d: %v", i, errs[i])
		}
		if diff := cmp.Diff(want, titles(results[i])); diff != "" {
			t.Fatalf("load %d returned unexpected order (-want +got):\n%s", i, diff)
		}
	}
	if results[0][0] == results[1][0] {
		t.Fatal("expected each load to parse its own articles")
	}
}

func TestFindByTitle(t *testing.T) {
	list := []*Article{
		{Title: "Go", Path: "first.md"},
		{Title: "Rust", Path: "rust.md"},
		{Title: "Go", Path: "second.md"},
	}

	found, ok := FindByTitle(list, "Go")
	if !ok || found.Path != "first.md" {
		t.Fatalf("expected first match, got %+v (ok=%v)", found, ok)
	}
	if _, ok := FindByTitle(list, "go"); ok {
		t.Fatal("expected case-sensitive match")
	}
	if _, ok := FindByTitle(nil, "Go"); ok {
		t.Fatal("expected miss on empty list")
	}
}
