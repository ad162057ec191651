package markdown

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRenderHTML(t *testing.T) {
	svc := NewService()

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"heading", "# Go Basics", "<h1>Go Basics</h1>\n"},
		{"emphasis", "learn *fast*", "<p>learn <em>fast</em></p>\n"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.RenderHTML(tt.content)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestRenderHTMLStrikethrough(t *testing.T) {
	// GFM extension is on.
	svc := NewService()
	got, err := svc.RenderHTML("~~old price~~")
	require.NoError(t, err)
	require.Contains(t, got, "<del>old price</del>")
}

func TestRenderHTMLHardWraps(t *testing.T) {
	svc := NewService(WithHardWraps())
	got, err := svc.RenderHTML("line one\nline two")
	require.NoError(t, err)
	require.Contains(t, got, "<br")
}
