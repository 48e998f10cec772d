package markdown_test

import (
	"strings"
	"testing"

	"jobtrack/internal/platform/markdown"
)

func TestParseRenderRoundTripKeepsBody(t *testing.T) {
	t.Parallel()
	doc := markdown.Document{Meta: map[string]any{"records": 2}, Body: "# Pipeline\n"}
	rendered, err := doc.Render()
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	parsed, err := markdown.Parse(rendered)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed.Body != "# Pipeline\n" {
		t.Fatalf("unexpected body %q", parsed.Body)
	}
	if parsed.Meta["records"] != 2 {
		t.Fatalf("unexpected meta %+v", parsed.Meta)
	}
}

func TestParseWithoutFrontmatterAndMissingSeparator(t *testing.T) {
	t.Parallel()
	doc, err := markdown.Parse("plain body")
	if err != nil {
		t.Fatalf("parse plain: %v", err)
	}
	if doc.Body != "plain body" || len(doc.Meta) != 0 {
		t.Fatalf("unexpected document %+v", doc)
	}
	if _, err := markdown.Parse("---\nkey: value\nno closing"); err == nil {
		t.Fatalf("expected error for unterminated frontmatter")
	}
}

func TestReplaceBlockKeepsSurroundingText(t *testing.T) {
	t.Parallel()
	doc := markdown.Document{Body: "intro\n<!-- s -->\nold\n<!-- e -->\noutro\n"}
	doc.ReplaceBlock("<!-- s -->", "<!-- e -->", "new")
	if doc.Body != "intro\n<!-- s -->\nnew\n<!-- e -->\noutro\n" {
		t.Fatalf("unexpected body %q", doc.Body)
	}

	empty := markdown.Document{}
	empty.ReplaceBlock("<!-- s -->", "<!-- e -->", "rows")
	if !strings.HasPrefix(empty.Body, "<!-- s -->\nrows") {
		t.Fatalf("expected fresh block, got %q", empty.Body)
	}
}
