package extract

import (
	"strings"

	"github.com/adrg/frontmatter"
)

// frontMatter holds the front-matter keys the extractor reads.
type frontMatter struct {
	Title string `yaml:"title" toml:"title" json:"title"`
}

// stripFrontMatter separates a leading front-matter block from the Markdown
// body. It returns the body, the front-matter title, and the number of lines
// the front matter occupied so that block line numbers stay relative to the
// original file. Text without front matter, or with front matter that does
// not parse, is returned unchanged.
func stripFrontMatter(text string) (body, title string, lineOffset int) {
	var meta frontMatter
	rest, err := frontmatter.Parse(strings.NewReader(text), &meta)
	if err != nil {
		return text, "", 0
	}

	body = string(rest)
	if len(body) == len(text) || !strings.HasSuffix(text, body) {
		return text, "", 0
	}
	prefix := text[:len(text)-len(body)]
	return body, strings.TrimSpace(meta.Title), strings.Count(prefix, "\n")
}
