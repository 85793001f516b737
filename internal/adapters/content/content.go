// Package content renders the site's Markdown pages once at startup.
package content

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
)

//go:embed pages/*.md
var embedded embed.FS

// Page is one rendered Markdown document.
type Page struct {
	Slug  string
	Title string
	HTML  template.HTML
}

// Library holds rendered pages by slug.
type Library struct {
	pages map[string]Page
}

// md escapes raw HTML in the source (WithUnsafe is not set).
var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM, extension.Typographer),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	goldmark.WithRendererOptions(goldmarkHTML.WithHardWraps()),
)

// Default returns the pages compiled into the binary.
func Default() (*Library, error) {
	sub, err := fs.Sub(embedded, "pages")
	if err != nil {
		return nil, err
	}
	return Load(sub)
}

// Load renders every *.md file at the root of fsys. The slug is the file name
// without extension; the title is the first level-one heading.
// PRE: fsys is readable
// POST: Returns a library with one page per file, or the first render error
func Load(fsys fs.FS) (*Library, error) {
	names, err := fs.Glob(fsys, "*.md")
	if err != nil {
		return nil, err
	}
	lib := &Library{pages: make(map[string]Page, len(names))}
	for _, name := range names {
		src, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		p, err := Render(strings.TrimSuffix(path.Base(name), ".md"), src)
		if err != nil {
			return nil, err
		}
		lib.pages[p.Slug] = p
	}
	return lib, nil
}

// Render converts one Markdown source to a Page.
func Render(slug string, src []byte) (Page, error) {
	var buf bytes.Buffer
	if err := md.Convert(src, &buf); err != nil {
		return Page{}, fmt.Errorf("render %s: %w", slug, err)
	}
	return Page{Slug: slug, Title: title(src, slug), HTML: template.HTML(buf.String())}, nil
}

// Page returns the page with the given slug.
func (l *Library) Page(slug string) (Page, bool) {
	p, ok := l.pages[slug]
	return p, ok
}

// Slugs lists the available pages in order.
func (l *Library) Slugs() []string {
	out := make([]string, 0, len(l.pages))
	for s := range l.pages {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func title(src []byte, fallback string) string {
	for _, line := range strings.Split(string(src), "\n") {
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "# "))
		}
	}
	return fallback
}
