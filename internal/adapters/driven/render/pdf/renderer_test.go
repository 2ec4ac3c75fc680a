package pdf

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderer_Format(t *testing.T) {
	assert.Equal(t, "pdf", New().Format())
}

func TestRenderer_Render(t *testing.T) {
	data, err := New().Render("Motion to Suppress Statements", "CASE: People v. Doe\n\nThe stop lacked reasonable suspicion.")

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
	assert.Contains(t, string(data), "%%EOF")
}

func TestRenderer_Render_Paginates(t *testing.T) {
	short, err := New().Render("Facts", "one line")
	require.NoError(t, err)

	long, err := New().Render("Facts", strings.Repeat("A fact stated on its own line.\n", 400))
	require.NoError(t, err)

	assert.Greater(t, bytes.Count(long, []byte("/Type /Page\n")), bytes.Count(short, []byte("/Type /Page\n")))
}

func TestRenderer_Render_NonLatinPunctuation(t *testing.T) {
	_, err := New().Render("Statement — “quoted”", "Officer said ‘stop’.")

	assert.NoError(t, err)
}
