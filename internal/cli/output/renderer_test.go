package output

import (
	"bytes"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func newTestRenderer(mode OutputMode, isTTY bool) (*Renderer, *bytes.Buffer, *bytes.Buffer) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	return NewRendererWithTTY(out, errOut, isTTY, mode), out, errOut
}

func TestRenderer_EffectiveMode(t *testing.T) {
	tests := []struct {
		name  string
		mode  OutputMode
		isTTY bool
		want  OutputMode
	}{
		{"auto tty", ModeAuto, true, ModeText},
		{"auto pipe", ModeAuto, false, ModeMarkdown},
		{"empty means auto", "", false, ModeMarkdown},
		{"explicit text on pipe", ModeText, false, ModeText},
		{"json", ModeJSON, true, ModeJSON},
		{"markdown on tty", ModeMarkdown, true, ModeMarkdown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _, _ := newTestRenderer(tt.mode, tt.isTTY)
			assert.Equal(t, tt.want, r.EffectiveMode())
			assert.Equal(t, tt.isTTY, r.IsTTY())
		})
	}
}

func TestNewRenderer_BufferIsNotTTY(t *testing.T) {
	r := NewRenderer(&bytes.Buffer{}, &bytes.Buffer{}, ModeAuto)
	assert.False(t, r.IsTTY())
	assert.Equal(t, ModeMarkdown, r.EffectiveMode())
}

func TestRenderer_NoANSIWhenPiped(t *testing.T) {
	r, out, errOut := newTestRenderer(ModeAuto, false)

	r.Header(1, "Models")
	r.Success("all good")
	r.StatusLine("org.acme", "failed", "boom")
	r.Println(r.Styles().Error.Render("styled"))
	r.Warning("careful")

	assert.False(t, ansiPattern.MatchString(out.String()), "stdout: %q", out.String())
	assert.False(t, ansiPattern.MatchString(errOut.String()))
	assert.Contains(t, out.String(), "# Models")
	assert.Contains(t, out.String(), "✓ all good")
	assert.Contains(t, out.String(), "✗ org.acme boom")
	assert.Contains(t, errOut.String(), "Warning: careful")
}

func TestRenderer_Table(t *testing.T) {
	header := []string{"Namespace", "Name"}
	rows := [][]string{{"org.acme", "Person"}, {"org.acme", "Address"}}

	t.Run("markdown", func(t *testing.T) {
		r, out, _ := newTestRenderer(ModeMarkdown, false)
		r.Table(header, rows)
		lines := strings.Split(strings.TrimSpace(out.String()), "\n")
		require.Len(t, lines, 4)
		assert.Contains(t, strings.ToLower(lines[0]), "namespace")
		assert.True(t, strings.HasPrefix(lines[0], "|"))
		assert.Contains(t, lines[2], "Person")
	})

	t.Run("text", func(t *testing.T) {
		r, out, _ := newTestRenderer(ModeText, true)
		r.Table(header, rows)
		assert.Contains(t, out.String(), "Address")
		assert.Contains(t, out.String(), "─")
	})

	t.Run("empty", func(t *testing.T) {
		r, out, _ := newTestRenderer(ModeMarkdown, false)
		r.Table(header, nil)
		assert.Equal(t, "(0 rows)\n", out.String())
	})
}

func TestRenderer_JSON(t *testing.T) {
	r, out, _ := newTestRenderer(ModeJSON, false)
	require.NoError(t, r.JSON(ListSummary{Models: 2, Declarations: 5}))
	assert.JSONEq(t, `{"models":2,"declarations":5}`, out.String())
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "## Levels", FormatHeader(2, "Levels"))
	assert.Equal(t, "# x", FormatHeader(0, "x"))
	assert.Equal(t, "- **Kind:** concept", FormatKeyValue("Kind", "concept"))
	assert.Equal(t, "```json\n{}\n```", FormatCodeBlock("json", "{}\n"))
	assert.Equal(t, "Hierarchy", Title("hierarchy"))
}
