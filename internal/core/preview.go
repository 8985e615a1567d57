package core

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"

	"github.com/ryotapoi/mdlink/internal/autolink"
)

// PreviewOptions selects the note to render.
type PreviewOptions struct {
	File string // vault-relative path
}

// PreviewResult is the rendered HTML of a note with autolinks inserted.
type PreviewResult struct {
	File  string
	HTML  string
	Links int // anchors inserted
}

// markdown renders notes. Raw HTML is kept so that existing anchors survive
// into the rendered page and are excluded from autolinking.
var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithUnsafe()),
)

// Preview renders a note to HTML and turns title occurrences in its
// paragraphs into internal-link anchors.
func Preview(vaultPath string, opts PreviewOptions) (*PreviewResult, error) {
	if opts.File == "" {
		return nil, fmt.Errorf("file is required")
	}
	cfg, err := LoadConfig(vaultPath)
	if err != nil {
		return nil, err
	}
	notes, err := loadNotes(vaultPath, cfg)
	if err != nil {
		return nil, err
	}
	e := autolink.NewEngine(autolink.Options{Logger: slog.Default()})
	return previewNote(e, vaultPath, NormalizePath(opts.File), notes, cfg)
}

func previewNote(e *autolink.Engine, vaultPath, file string, notes []noteRecord, cfg Config) (*PreviewResult, error) {
	data, err := os.ReadFile(filepath.Join(vaultPath, file))
	if err != nil {
		return nil, err
	}
	content := string(data)
	meta := parseNoteMeta(content, cfg.Blacklist())
	cat := catalogFor(notes, file, meta.blacklist)

	var buf bytes.Buffer
	if err := markdown.Convert([]byte(stripFrontmatter(content)), &buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", file, err)
	}
	page, links, err := linkParagraphs(e, buf.String(), cat)
	if err != nil {
		return nil, err
	}
	return &PreviewResult{File: file, HTML: page, Links: links}, nil
}

// linkParagraphs scans the body of every <p> element of page in the rendered
// context and wraps each match in an anchor. Other elements are left as is.
func linkParagraphs(e *autolink.Engine, page string, cat *autolink.Catalog) (string, int, error) {
	const openTag, closeTag = "<p>", "</p>"
	var b strings.Builder
	links := 0
	pos := 0
	for {
		open := strings.Index(page[pos:], openTag)
		if open == -1 {
			break
		}
		bodyStart := pos + open + len(openTag)
		end := strings.Index(page[bodyStart:], closeTag)
		if end == -1 {
			break
		}
		bodyEnd := bodyStart + end
		body := page[bodyStart:bodyEnd]

		report, err := e.ScanDocument(autolink.NewDocument(body, autolink.RenderedContext), cat)
		if err != nil {
			return "", 0, err
		}
		b.WriteString(page[pos:bodyStart])
		b.WriteString(autolink.SpliceWith(body, report.Matches, anchorFor))
		links += len(report.Matches)
		pos = bodyEnd
	}
	b.WriteString(page[pos:])
	return b.String(), links, nil
}

// anchorFor renders the internal-link anchor for a match. The matched text is
// already HTML from the renderer; only the target needs escaping.
func anchorFor(m autolink.Match) string {
	target := string(util.EscapeHTML([]byte(m.Target)))
	return `<a href="` + target + `" data-href="` + target + `" class="internal-link autolink-link">` + m.Text + `</a>`
}
