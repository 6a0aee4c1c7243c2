package render

import "context"

// Renderer turns a Page into a byte representation (HTML, terminal text).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, page Page, options RenderOptions) ([]byte, error)
}
