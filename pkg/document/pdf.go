package document

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	_ "image/png"
	"strings"

	"github.com/go-pdf/fpdf"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// PDFConfig controls page geometry and typography. Lengths are in Unit.
type PDFConfig struct {
	PageSize     string  `yaml:"page_size" mapstructure:"page_size"`
	Orientation  string  `yaml:"orientation" mapstructure:"orientation"`
	Unit         string  `yaml:"unit" mapstructure:"unit"`
	Margin       float64 `yaml:"margin" mapstructure:"margin"`
	ImageQuality int     `yaml:"image_quality" mapstructure:"image_quality"`
	FontFamily   string  `yaml:"font_family" mapstructure:"font_family"`
	FontSize     float64 `yaml:"font_size" mapstructure:"font_size"`
	LineHeight   float64 `yaml:"line_height" mapstructure:"line_height"`
	// SignatureHeight is the rendered signature height in points.
	SignatureHeight float64 `yaml:"signature_height" mapstructure:"signature_height"`
}

// DefaultPDFConfig is US Letter, portrait, 0.75 in margins, JPEG quality 98.
func DefaultPDFConfig() PDFConfig {
	return PDFConfig{
		PageSize:        "Letter",
		Orientation:     "P",
		Unit:            "in",
		Margin:          0.75,
		ImageQuality:    98,
		FontFamily:      "Helvetica",
		FontSize:        10,
		LineHeight:      1.5,
		SignatureHeight: 60,
	}
}

func (c PDFConfig) withDefaults() PDFConfig {
	def := DefaultPDFConfig()
	if c.PageSize == "" {
		c.PageSize = def.PageSize
	}
	switch strings.ToLower(c.Orientation) {
	case "", "p", "portrait":
		c.Orientation = "P"
	case "l", "landscape":
		c.Orientation = "L"
	}
	if c.Unit == "" {
		c.Unit = def.Unit
	}
	if c.Margin <= 0 {
		c.Margin = def.Margin
	}
	if c.ImageQuality <= 0 || c.ImageQuality > 100 {
		c.ImageQuality = def.ImageQuality
	}
	if c.FontFamily == "" {
		c.FontFamily = def.FontFamily
	}
	if c.FontSize <= 0 {
		c.FontSize = def.FontSize
	}
	if c.LineHeight <= 0 {
		c.LineHeight = def.LineHeight
	}
	if c.SignatureHeight <= 0 {
		c.SignatureHeight = def.SignatureHeight
	}
	return c
}

// PDFConverter lays out document markup with fpdf.
type PDFConverter struct {
	cfg PDFConfig
}

// NewPDFConverter applies defaults to unset config fields.
func NewPDFConverter(cfg PDFConfig) *PDFConverter {
	return &PDFConverter{cfg: cfg.withDefaults()}
}

func (c *PDFConverter) Name() string        { return FormatPDF }
func (c *PDFConverter) ContentType() string { return "application/pdf" }
func (c *PDFConverter) Extension() string   { return "pdf" }

// Config returns the effective configuration.
func (c *PDFConverter) Config() PDFConfig {
	return c.cfg
}

// Convert parses markup and writes a PDF.
func (c *PDFConverter) Convert(ctx context.Context, markup string) ([]byte, error) {
	root, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("document: parse markup: %w", err)
	}

	pdf := fpdf.New(c.cfg.Orientation, c.cfg.Unit, c.cfg.PageSize, "")
	pdf.SetMargins(c.cfg.Margin, c.cfg.Margin, c.cfg.Margin)
	pdf.SetAutoPageBreak(true, c.cfg.Margin)
	pdf.SetCreator("go-claimform", true)
	pdf.AddPage()

	w := &pdfWriter{
		ctx:  ctx,
		pdf:  pdf,
		cfg:  c.cfg,
		tr:   pdf.UnicodeTranslatorFromDescriptor(""),
		size: c.cfg.FontSize,
	}
	w.applyFont()

	body := findElement(root, atom.Body)
	if body == nil {
		body = root
	}
	if err := w.children(body); err != nil {
		return nil, err
	}
	if pdf.Err() {
		return nil, fmt.Errorf("document: layout: %w", pdf.Error())
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("document: write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	errNotDataURI = errors.New("document: image source is not a data URI")
	// ErrImageTooLarge is returned for embedded images above maxImagePixels.
	ErrImageTooLarge = errors.New("document: embedded image too large")
)

// maxImagePixels bounds the canvas allocated when flattening an image.
const maxImagePixels = 2000 * 2000

type listState struct {
	ordered bool
	index   int
}

type pdfWriter struct {
	ctx    context.Context
	pdf    *fpdf.Fpdf
	cfg    PDFConfig
	tr     func(string) string
	size   float64
	bold   int
	italic int
	lists  []listState
	images int
}

func (w *pdfWriter) lineHeight() float64 {
	return w.pdf.PointConvert(w.size) * w.cfg.LineHeight
}

func (w *pdfWriter) applyFont() {
	style := ""
	if w.bold > 0 {
		style += "B"
	}
	if w.italic > 0 {
		style += "I"
	}
	w.pdf.SetFont(w.cfg.FontFamily, style, w.size)
}

func (w *pdfWriter) left() float64 {
	left, _, _, _ := w.pdf.GetMargins()
	return left
}

func (w *pdfWriter) atLineStart() bool {
	return w.pdf.GetX() <= w.left()+0.001
}

func (w *pdfWriter) breakLine() {
	if !w.atLineStart() {
		w.pdf.Ln(w.lineHeight())
	}
}

func (w *pdfWriter) gap(factor float64) {
	w.pdf.Ln(w.lineHeight() * factor)
}

func (w *pdfWriter) children(n *html.Node) error {
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if err := w.node(child); err != nil {
			return err
		}
	}
	return nil
}

func (w *pdfWriter) node(n *html.Node) error {
	switch n.Type {
	case html.TextNode:
		w.text(n.Data)
		return nil
	case html.ElementNode:
	default:
		return w.children(n)
	}
	if err := w.ctx.Err(); err != nil {
		return err
	}

	switch n.DataAtom {
	case atom.H1, atom.H2, atom.H3, atom.H4:
		return w.heading(n)
	case atom.P:
		if hasClass(n, "date") {
			w.breakLine()
			w.pdf.MultiCell(0, w.lineHeight(), w.tr(textContent(n)), "", "R", false)
			w.gap(0.5)
			return nil
		}
		w.breakLine()
		if err := w.children(n); err != nil {
			return err
		}
		w.breakLine()
		w.gap(0.4)
	case atom.Br:
		w.pdf.Ln(w.lineHeight())
	case atom.Strong, atom.B:
		w.bold++
		w.applyFont()
		err := w.children(n)
		w.bold--
		w.applyFont()
		return err
	case atom.Em, atom.I:
		w.italic++
		w.applyFont()
		err := w.children(n)
		w.italic--
		w.applyFont()
		return err
	case atom.Ul, atom.Ol:
		w.breakLine()
		w.lists = append(w.lists, listState{ordered: n.DataAtom == atom.Ol})
		err := w.children(n)
		w.lists = w.lists[:len(w.lists)-1]
		w.gap(0.3)
		return err
	case atom.Li:
		return w.listItem(n)
	case atom.Img:
		return w.image(n)
	case atom.Div:
		if hasClass(n, "page-break") {
			w.breakLine()
			w.pdf.AddPage()
			return nil
		}
		if hasClass(n, "address") || hasClass(n, "contact") {
			return w.indented(0.4, func() error { return w.children(n) })
		}
		return w.children(n)
	default:
		return w.children(n)
	}
	return nil
}

func (w *pdfWriter) text(raw string) {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		if raw != "" && !w.atLineStart() {
			w.pdf.Write(w.lineHeight(), " ")
		}
		return
	}
	text := strings.Join(fields, " ")
	if isSpace(raw[0]) && !w.atLineStart() {
		text = " " + text
	}
	if isSpace(raw[len(raw)-1]) {
		text += " "
	}
	w.pdf.Write(w.lineHeight(), w.tr(text))
}

func (w *pdfWriter) heading(n *html.Node) error {
	scale := map[atom.Atom]float64{atom.H1: 1.8, atom.H2: 1.3, atom.H3: 1.15, atom.H4: 1.05}[n.DataAtom]
	w.breakLine()
	if n.DataAtom != atom.H1 {
		w.gap(0.3)
	}
	prev := w.size
	w.size = w.cfg.FontSize * scale
	w.bold++
	w.applyFont()
	err := w.children(n)
	w.breakLine()
	w.bold--
	w.size = prev
	w.applyFont()
	w.gap(0.3)
	return err
}

func (w *pdfWriter) listItem(n *html.Node) error {
	w.breakLine()
	marker := "•"
	if len(w.lists) > 0 {
		top := &w.lists[len(w.lists)-1]
		top.index++
		if top.ordered {
			marker = fmt.Sprintf("%d.", top.index)
		}
	}
	left := w.left()
	indent := w.pdf.PointConvert(w.cfg.FontSize * 2)
	w.pdf.SetX(left + indent*0.25)
	w.pdf.Write(w.lineHeight(), w.tr(marker))
	return w.indented(indent, func() error {
		w.pdf.SetX(left + indent)
		err := w.children(n)
		w.breakLine()
		return err
	})
}

func (w *pdfWriter) indented(by float64, fn func() error) error {
	left := w.left()
	w.pdf.SetLeftMargin(left + by)
	if w.atLineStart() {
		w.pdf.SetX(left + by)
	}
	err := fn()
	w.breakLine()
	w.pdf.SetLeftMargin(left)
	w.pdf.SetX(left)
	return err
}

func (w *pdfWriter) image(n *html.Node) error {
	src := attr(n, "src")
	jpg, err := flattenDataURI(src, w.cfg.ImageQuality)
	if err != nil {
		if errors.Is(err, errNotDataURI) {
			return nil
		}
		return err
	}

	w.images++
	name := fmt.Sprintf("img-%d", w.images)
	opts := fpdf.ImageOptions{ImageType: "JPG"}
	info := w.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(jpg))
	if info == nil || w.pdf.Err() {
		return fmt.Errorf("document: register image: %w", w.pdf.Error())
	}

	height := w.pdf.PointConvert(w.cfg.SignatureHeight)
	width := height * info.Width() / info.Height()
	pageW, pageH := w.pdf.GetPageSize()
	left, _, right, bottom := w.pdf.GetMargins()
	if maxW := pageW - left - right; width > maxW {
		width = maxW
		height = width * info.Height() / info.Width()
	}

	w.breakLine()
	if w.pdf.GetY()+height > pageH-bottom {
		w.pdf.AddPage()
	}
	y := w.pdf.GetY()
	w.pdf.ImageOptions(name, left, y, width, height, false, opts, 0, "")
	w.pdf.SetY(y + height)
	return nil
}

// flattenDataURI decodes a base64 image data URI, composites it over white and
// re-encodes it as JPEG.
func flattenDataURI(src string, quality int) ([]byte, error) {
	meta, payload, ok := strings.Cut(src, ",")
	if !ok || !strings.HasPrefix(meta, "data:image/") || !strings.HasSuffix(meta, ";base64") {
		return nil, errNotDataURI
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("document: decode image: %w", err)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("document: decode image: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width*cfg.Height > maxImagePixels {
		return nil, fmt.Errorf("%w: %dx%d", ErrImageTooLarge, cfg.Width, cfg.Height)
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("document: decode image: %w", err)
	}

	bounds := img.Bounds()
	canvas := image.NewRGBA(bounds)
	draw.Draw(canvas, bounds, image.White, image.Point{}, draw.Src)
	draw.Draw(canvas, bounds, img, bounds.Min, draw.Over)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, canvas, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("document: encode image: %w", err)
	}
	return buf.Bytes(), nil
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if found := findElement(child, a); found != nil {
			return found
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, candidate := range strings.Fields(attr(n, "class")) {
		if candidate == class {
			return true
		}
	}
	return false
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\n' || c == '\t' || c == '\r'
}
