package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const separator = "---\n"

// Document is a markdown note with an optional YAML frontmatter header.
type Document struct {
	Meta map[string]any
	Body string
}

// Parse splits content into frontmatter and body. Content without a leading
// separator is all body.
func Parse(content string) (Document, error) {
	if !strings.HasPrefix(content, separator) {
		return Document{Meta: map[string]any{}, Body: content}, nil
	}
	rest := strings.TrimPrefix(content, separator)
	idx := strings.Index(rest, "\n"+separator)
	if idx < 0 {
		return Document{}, fmt.Errorf("invalid frontmatter: missing closing separator")
	}
	meta := map[string]any{}
	if err := yaml.Unmarshal([]byte(rest[:idx]), &meta); err != nil {
		return Document{}, fmt.Errorf("unmarshal frontmatter: %w", err)
	}
	return Document{Meta: meta, Body: rest[idx+len("\n"+separator):]}, nil
}

func (d Document) Render() (string, error) {
	raw, err := yaml.Marshal(d.Meta)
	if err != nil {
		return "", fmt.Errorf("marshal frontmatter: %w", err)
	}
	buf := bytes.Buffer{}
	buf.WriteString(separator)
	buf.Write(raw)
	buf.WriteString(separator)
	if !strings.HasPrefix(d.Body, "\n") {
		buf.WriteString("\n")
	}
	buf.WriteString(d.Body)
	return buf.String(), nil
}

// ReplaceBlock swaps the text between startMarker and endMarker for
// generated, appending a fresh block when the markers are absent. Text
// outside the markers is kept as is.
func (d *Document) ReplaceBlock(startMarker, endMarker, generated string) {
	body := d.Body
	block := startMarker + "\n" + generated + "\n" + endMarker
	start := strings.Index(body, startMarker)
	end := strings.Index(body, endMarker)

	switch {
	case start >= 0 && end > start:
		d.Body = body[:start] + block + body[end+len(endMarker):]
	case strings.TrimSpace(body) == "":
		d.Body = block + "\n"
	case strings.HasSuffix(body, "\n"):
		d.Body = body + "\n" + block + "\n"
	default:
		d.Body = body + "\n\n" + block + "\n"
	}
}
