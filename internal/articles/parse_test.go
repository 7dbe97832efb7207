package articles

import (
	"errors"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

func TestParseArticleSplitsMetadataFromContent(t *testing.T) {
	source := "title: Foo\ndate: 2020-01-01\n\nHello **world**"

	article, err := ParseArticle("foo.md", []byte(source), nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if article.Title != "Foo" {
		t.Fatalf("expected title Foo, got %q", article.Title)
	}
	want := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	if !article.Date.Equal(want) {
		t.Fatalf("expected date %s, got %s", want, article.Date)
	}
	if article.Content != "Hello **world**" {
		t.Fatalf("unexpected content %q", article.Content)
	}
	if article.Edited != nil || article.WasEdited() {
		t.Fatalf("expected no edited timestamp, got %v", article.Edited)
	}
	if article.Path != "foo.md" {
		t.Fatalf("expected path foo.md, got %q", article.Path)
	}
}

func TestParseArticleSplitsOnFirstBlankLineOnly(t *testing.T) {
	source := "title: Foo\ndate: 2020-01-01\n\nfirst paragraph\n\nsecond paragraph\n"

	article, err := ParseArticle("foo.md", []byte(source), nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if article.Content != "first paragraph\n\nsecond paragraph\n" {
		t.Fatalf("expected remaining blank lines kept in content, got %q", article.Content)
	}
}

func TestParseArticleNormalisesCRLF(t *testing.T) {
	source := "title: Windows\r\ndate: 2020-01-01\r\n\r\nBody\r\n"

	article, err := ParseArticle("win.md", []byte(source), nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if article.Title != "Windows" || article.Content != "Body\n" {
		t.Fatalf("unexpected article %+v", article)
	}
}

func TestParseArticleEditedAndExtra(t *testing.T) {
	source := "title: Bar\ndate: 2021-03-04 10:15\nedited: 2021-03-05\nauthor: Ann\ntags: [go, web]\ndraft: false\n\nbody"

	article, err := ParseArticle("bar.md", []byte(source), nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	wantDate := time.Date(2021, 3, 4, 10, 15, 0, 0, time.UTC)
	if !article.Date.Equal(wantDate) {
		t.Fatalf("expected date %s, got %s", wantDate, article.Date)
	}
	if !article.WasEdited() {
		t.Fatal("expected edited timestamp")
	}
	wantEdited := time.Date(2021, 3, 5, 0, 0, 0, 0, time.UTC)
	if !article.Edited.Equal(wantEdited) {
		t.Fatalf("expected edited %s, got %s", wantEdited, article.Edited)
	}

	for key, want := range map[string]string{"author": "Ann", "tags": "go, web", "draft": "false"} {
		got, ok := article.Meta(key)
		if !ok || got != want {
			t.Fatalf("expected extra %s=%q, got %q (present=%v)", key, want, got, ok)
		}
	}
	for _, reserved := range []string{"title", "date", "edited"} {
		if _, ok := article.Meta(reserved); ok {
			t.Fatalf("expected %s to stay out of extra metadata", reserved)
		}
	}
}

func TestParseArticleResolvesInLocation(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)

	article, err := ParseArticle("tz.md", []byte("title: TZ\ndate: 2020-01-01 12:00\n\nbody"), loc)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := time.Date(2020, 1, 1, 10, 0, 0, 0, time.UTC)
	if !article.Date.Equal(want) {
		t.Fatalf("expected %s, got %s", want, article.Date.UTC())
	}
}

func TestParseArticleDelimitedFrontMatter(t *testing.T) {
	source := "---\ntitle: Delimited\ndate: 2022-02-02\nauthor: Jane\n---\n\nBody text\n"

	article, err := ParseArticle("delimited.md", []byte(source), nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if article.Title != "Delimited" {
		t.Fatalf("expected title Delimited, got %q", article.Title)
	}
	if article.Content != "Body text\n" {
		t.Fatalf("unexpected content %q", article.Content)
	}
	if author, _ := article.Meta("author"); author != "Jane" {
		t.Fatalf("expected author Jane, got %q", author)
	}
}

func TestParseArticleDocumentMarkerWithoutClosingLine(t *testing.T) {
	source := "---\ntitle: Foo\ndate: 2020-01-01\n\nHello **world**"

	article, err := ParseArticle("marker.md", []byte(source), nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if article.Title != "Foo" {
		t.Fatalf("expected title Foo, got %q", article.Title)
	}
	if article.Content != "Hello **world**" {
		t.Fatalf("unexpected content %q", article.Content)
	}
}

func TestParseArticleRuleInBodyKeepsFirstBlankLineSplit(t *testing.T) {
	source := "---\ntitle: Foo\ndate: 2020-01-01\n\nIntro\n\n---\n\nMore"

	article, err := ParseArticle("rule.md", []byte(source), nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if article.Title != "Foo" {
		t.Fatalf("expected title Foo, got %q", article.Title)
	}
	if article.Content != "Intro\n\n---\n\nMore" {
		t.Fatalf("unexpected content %q", article.Content)
	}
	if len(article.Extra) != 0 {
		t.Fatalf("expected no extra metadata, got %v", article.Extra)
	}
}

func TestParseArticleDelimitedWithoutBlankLine(t *testing.T) {
	source := "---\ntitle: Tight\ndate: 2020-01-01\n---\nBody right away\n"

	article, err := ParseArticle("tight.md", []byte(source), nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if article.Title != "Tight" || article.Content != "Body right away\n" {
		t.Fatalf("unexpected article %q / %q", article.Title, article.Content)
	}
}

func TestParseArticleMissingTitleIsEmpty(t *testing.T) {
	article, err := ParseArticle("untitled.md", []byte("date: 2020-01-01\n\nbody"), nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if article.Title != "" {
		t.Fatalf("expected empty title, got %q", article.Title)
	}
}

func TestParseArticleErrors(t *testing.T) {
	cases := []struct {
		name   string
		source string
		reason string
		target error
	}{
		{name: "no separator", source: "title: Foo\ndate: 2020-01-01\n", reason: "split", target: ErrNoSeparator},
		{name: "scalar metadata", source: "just a sentence\n\nbody", reason: "metadata", target: ErrMetadataNotMapping},
		{name: "missing date", source: "title: Foo\n\nbody", reason: "date", target: ErrDateMissing},
		{name: "invalid date", source: "title: Foo\ndate: not a date at all\n\nbody", reason: "date", target: ErrDateInvalid},
		{name: "invalid edited", source: "title: Foo\ndate: 2020-01-01\nedited: whenever\n\nbody", reason: "edited", target: ErrEditedInvalid},
		{name: "malformed yaml", source: "title: [unclosed\ndate: 2020-01-01\n\nbody", reason: "metadata"},
		{name: "malformed front matter", source: "---\ntitle: [unclosed\ndate: 2020-01-01\n---\n\nbody", reason: "front matter"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseArticle("bad.md", []byte(tc.source), nil)
			if err == nil {
				t.Fatal("expected error")
			}

			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("expected *ParseError, got %T: %v", err, err)
			}
			if parseErr.Path != "bad.md" {
				t.Fatalf("expected path bad.md, got %q", parseErr.Path)
			}
			if parseErr.Reason != tc.reason {
				t.Fatalf("expected reason %q, got %q", tc.reason, parseErr.Reason)
			}
			if tc.target != nil && !errors.Is(err, tc.target) {
				t.Fatalf("expected errors.Is(%v), got %v", tc.target, err)
			}
			if !goerrors.IsCategory(err, goerrors.CategoryBadInput) {
				t.Fatalf("expected bad input category, got %v", err)
			}
		})
	}
}
