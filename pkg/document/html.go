package document

import (
	"context"
	"fmt"
	"strings"
)

// HTMLConverter wraps document markup in a standalone, print-ready page.
type HTMLConverter struct {
	cfg PDFConfig
}

// NewHTMLConverter uses the page geometry of cfg for the print stylesheet.
func NewHTMLConverter(cfg PDFConfig) *HTMLConverter {
	return &HTMLConverter{cfg: cfg.withDefaults()}
}

func (c *HTMLConverter) Name() string        { return FormatHTML }
func (c *HTMLConverter) ContentType() string { return "text/html; charset=utf-8" }
func (c *HTMLConverter) Extension() string   { return "html" }

// Convert returns a complete HTML document.
func (c *HTMLConverter) Convert(ctx context.Context, markup string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	orientation := "portrait"
	if c.cfg.Orientation == "L" {
		orientation = "landscape"
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n")
	b.WriteString("<title>Agreement and Declaration</title>\n<style>\n")
	fmt.Fprintf(&b, "@page { size: %s %s; margin: %g%s; }\n",
		strings.ToLower(c.cfg.PageSize), orientation, c.cfg.Margin, c.cfg.Unit)
	fmt.Fprintf(&b, "body { font-family: Arial, sans-serif; font-size: %gpt; line-height: %g; max-width: 800px; margin: 0 auto; }\n",
		c.cfg.FontSize, c.cfg.LineHeight)
	b.WriteString(".page-break { page-break-before: always; }\n")
	b.WriteString(".date { text-align: right; }\n")
	b.WriteString(".contact, .address { margin-left: 2rem; }\n")
	b.WriteString(".signature img { max-height: 80px; }\n")
	b.WriteString("</style>\n</head>\n<body>\n")
	b.WriteString(markup)
	b.WriteString("\n</body>\n</html>\n")
	return []byte(b.String()), nil
}
