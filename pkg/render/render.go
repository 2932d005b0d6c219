// Package render splits message content into display blocks.
//
// Content uses a small markdown subset: fenced code blocks with an optional
// language on the opening line, **bold** spans and [label](url) links.
// Paragraphs are separated by blank lines.
package render

import (
	"regexp"
	"strings"
)

// BlockKind discriminates Block.
type BlockKind string

const (
	BlockParagraph BlockKind = "paragraph"
	BlockCode      BlockKind = "code"
)

// InlineKind discriminates Inline.
type InlineKind string

const (
	InlineText InlineKind = "text"
	InlineBold InlineKind = "bold"
	InlineLink InlineKind = "link"
)

// Inline is a span within a paragraph.
type Inline struct {
	Kind InlineKind `json:"kind"`
	Text string     `json:"text"`
	URL  string     `json:"url,omitempty"`
}

// Block is a paragraph or a code block.
type Block struct {
	Kind     BlockKind `json:"kind"`
	Language string    `json:"language,omitempty"`
	Code     string    `json:"code,omitempty"`
	Inline   []Inline  `json:"inline,omitempty"`
}

var (
	fencePattern  = regexp.MustCompile("```[^`]*```")
	inlinePattern = regexp.MustCompile(`\*\*[^*]+\*\*|\[[^\]]+\]\([^)]+\)`)
	linkPattern   = regexp.MustCompile(`^\[([^\]]+)\]\(([^)]+)\)$`)
)

// Parse splits content into blocks in display order.
func Parse(content string) []Block {
	var blocks []Block
	last := 0
	for _, loc := range fencePattern.FindAllStringIndex(content, -1) {
		blocks = append(blocks, paragraphs(content[last:loc[0]])...)
		blocks = append(blocks, codeBlock(content[loc[0]+3:loc[1]-3]))
		last = loc[1]
	}
	return append(blocks, paragraphs(content[last:])...)
}

// codeBlock treats the first line of a fence body as its language.
func codeBlock(body string) Block {
	lang, code, found := strings.Cut(body, "\n")
	if !found {
		lang, code = "", body
	}
	return Block{
		Kind:     BlockCode,
		Language: strings.TrimSpace(lang),
		Code:     strings.TrimSpace(code),
	}
}

func paragraphs(text string) []Block {
	var out []Block
	for _, p := range strings.Split(text, "\n\n") {
		if strings.TrimSpace(p) == "" {
			continue
		}
		out = append(out, Block{Kind: BlockParagraph, Inline: Spans(p)})
	}
	return out
}

// Spans splits a paragraph into text, bold and link spans.
func Spans(paragraph string) []Inline {
	var out []Inline
	last := 0
	for _, loc := range inlinePattern.FindAllStringIndex(paragraph, -1) {
		if loc[0] > last {
			out = append(out, Inline{Kind: InlineText, Text: paragraph[last:loc[0]]})
		}
		out = append(out, span(paragraph[loc[0]:loc[1]]))
		last = loc[1]
	}
	if last < len(paragraph) {
		out = append(out, Inline{Kind: InlineText, Text: paragraph[last:]})
	}
	return out
}

func span(s string) Inline {
	if m := linkPattern.FindStringSubmatch(s); m != nil {
		return Inline{Kind: InlineLink, Text: m[1], URL: m[2]}
	}
	return Inline{Kind: InlineBold, Text: strings.TrimSuffix(strings.TrimPrefix(s, "**"), "**")}
}

// CodeBlocks returns the copyable code of every fenced block.
func CodeBlocks(content string) []string {
	var out []string
	for _, b := range Parse(content) {
		if b.Kind == BlockCode {
			out = append(out, b.Code)
		}
	}
	return out
}

// PlainText renders content without markup. Links keep their URL in parentheses.
func PlainText(content string) string {
	var parts []string
	for _, b := range Parse(content) {
		if b.Kind == BlockCode {
			parts = append(parts, b.Code)
			continue
		}
		var sb strings.Builder
		for _, in := range b.Inline {
			sb.WriteString(in.Text)
			if in.Kind == InlineLink {
				sb.WriteString(" (" + in.URL + ")")
			}
		}
		parts = append(parts, sb.String())
	}
	return strings.Join(parts, "\n\n")
}
