package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	content := "Run this in **Terminal**:\n\n```bash\ngit clone https://github.com/langchain-ai/langgraph-example.git\n```\n\nSee [the docs](https://example.com/docs) for more."

	blocks := Parse(content)
	require.Len(t, blocks, 3)

	assert.Equal(t, BlockParagraph, blocks[0].Kind)
	assert.Equal(t, []Inline{
		{Kind: InlineText, Text: "Run this in "},
		{Kind: InlineBold, Text: "Terminal"},
		{Kind: InlineText, Text: ":"},
	}, blocks[0].Inline)

	assert.Equal(t, BlockCode, blocks[1].Kind)
	assert.Equal(t, "bash", blocks[1].Language)
	assert.Equal(t, "git clone https://github.com/langchain-ai/langgraph-example.git", blocks[1].Code)

	assert.Equal(t, []Inline{
		{Kind: InlineText, Text: "See "},
		{Kind: InlineLink, Text: "the docs", URL: "https://example.com/docs"},
		{Kind: InlineText, Text: " for more."},
	}, blocks[2].Inline)
}

func TestParse_EdgeCases(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []Block
	}{
		{name: "empty", content: "", want: nil},
		{
			name:    "fence without language",
			content: "```\ncp .env.example .env\n```",
			want:    []Block{{Kind: BlockCode, Code: "cp .env.example .env"}},
		},
		{
			name:    "single line fence",
			content: "```make```",
			want:    []Block{{Kind: BlockCode, Code: "make"}},
		},
		{
			name:    "unclosed bold stays text",
			content: "a **b",
			want:    []Block{{Kind: BlockParagraph, Inline: []Inline{{Kind: InlineText, Text: "a **b"}}}},
		},
		{
			name:    "blank paragraphs dropped",
			content: "one\n\n\n\ntwo",
			want: []Block{
				{Kind: BlockParagraph, Inline: []Inline{{Kind: InlineText, Text: "one"}}},
				{Kind: BlockParagraph, Inline: []Inline{{Kind: InlineText, Text: "two"}}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.content))
		})
	}
}

func TestPlainTextAndCode(t *testing.T) {
	content := "Open **Docker**.\n\n```bash\ndocker ps\n```\n\n[Download](https://docker.com)"

	assert.Equal(t, "Open Docker.\n\ndocker ps\n\nDownload (https://docker.com)", PlainText(content))
	assert.Equal(t, []string{"docker ps"}, CodeBlocks(content))
}
