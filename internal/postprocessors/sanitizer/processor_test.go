package sanitizer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exonascope/exonascope-cli/internal/core/domain"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain", "Officer approached", "Officer approached"},
		{"nul bytes", "a\x00b", "ab"},
		{"keeps whitespace", "a\nb\tc\r\nd", "a\nb\tc\r\nd"},
		{"drops controls", "a\x07b\x1bc\x7f", "abc"},
		{"trims", "  \n[a.pdf]\ntext\n\n ", "[a.pdf]\ntext"},
		{"unicode", "café\x01 ü", "café ü"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.in))
		})
	}
}

func TestProcessor_Process(t *testing.T) {
	p := New()
	assert.Equal(t, "sanitizer", p.Name())

	doc := &domain.TextDocument{ID: "case-1", Content: "\x00facts\x02 here"}
	in := []domain.Chunk{{ID: "c1", Content: "x\x03y"}}

	out, err := p.Process(context.Background(), doc, in)

	require.NoError(t, err)
	assert.Equal(t, "facts here", doc.Content)
	require.Len(t, out, 1)
	assert.Equal(t, "xy", out[0].Content)
}

func TestProcessor_Process_NilChunks(t *testing.T) {
	doc := &domain.TextDocument{Content: "ok"}

	out, err := New().Process(context.Background(), doc, nil)

	require.NoError(t, err)
	assert.Nil(t, out)
}
