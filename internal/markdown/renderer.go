package markdown

import (
	"bytes"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// rendererInstance is initialized once and reused. The goldmark configuration
// never changes and the Markdown object is safe for concurrent Convert calls.
var (
	rendererInstance goldmark.Markdown
	rendererOnce     sync.Once
)

func getRenderer() goldmark.Markdown {
	rendererOnce.Do(func() {
		rendererInstance = goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithUnsafe()),
		)
	})
	return rendererInstance
}

// Renderer converts user-entered markdown to HTML for storage.
type Renderer struct{}

// NewRenderer returns the rich-text renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render converts markdown to HTML. A failed conversion falls back to the
// raw input rather than dropping user content.
func (Renderer) Render(text string) string {
	var buf bytes.Buffer
	if err := getRenderer().Convert([]byte(text), &buf); err != nil {
		return text
	}
	return buf.String()
}
