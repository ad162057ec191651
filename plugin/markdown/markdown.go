// Package markdown renders course descriptions to HTML. Descriptions are
// stored as raw markdown; rendering happens only at the HTTP edge so the
// store and dashboard layers never carry HTML.
package markdown

import (
	"bytes"

	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Service renders markdown content.
type Service interface {
	RenderHTML(content string) (string, error)
}

type service struct {
	md goldmark.Markdown
}

// Option configures the renderer.
type Option func(*config)

type config struct {
	hardWraps bool
}

// WithHardWraps renders single newlines as <br>, matching how authors write
// course descriptions in the editor.
func WithHardWraps() Option {
	return func(c *config) {
		c.hardWraps = true
	}
}

// NewService creates a markdown rendering service.
func NewService(options ...Option) Service {
	cfg := &config{}
	for _, opt := range options {
		opt(cfg)
	}

	rendererOptions := []goldmark.Option{
		goldmark.WithExtensions(extension.GFM),
	}
	if cfg.hardWraps {
		rendererOptions = append(rendererOptions, goldmark.WithRendererOptions(html.WithHardWraps()))
	}

	return &service{
		md: goldmark.New(rendererOptions...),
	}
}

func (s *service) RenderHTML(content string) (string, error) {
	var buf bytes.Buffer
	if err := s.md.Convert([]byte(content), &buf); err != nil {
		return "", errors.Wrap(err, "failed to render markdown")
	}
	return buf.String(), nil
}
