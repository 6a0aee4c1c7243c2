package site

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed content.yaml
var defaultContent []byte

// ErrInvalidContent is returned when a content file is missing required
// sections.
var ErrInvalidContent = errors.New("site: invalid content")

// Content is the static copy shown by the presentational shell.
type Content struct {
	Campaign   Campaign   `yaml:"campaign" json:"campaign"`
	Hero       Hero       `yaml:"hero" json:"hero"`
	KeyPoints  []string   `yaml:"key_points" json:"keyPoints"`
	Overview   []string   `yaml:"overview" json:"overview"`
	Timeline   []Event    `yaml:"timeline" json:"timeline"`
	FAQ        FAQContent `yaml:"faq" json:"faq"`
	Cases      []Case     `yaml:"cases" json:"cases"`
	Navigation []NavItem  `yaml:"navigation" json:"navigation"`
	CTA        CTAContent `yaml:"cta" json:"cta"`
	Outcomes   Outcomes   `yaml:"outcomes" json:"outcomes"`
	Footer     Footer     `yaml:"footer" json:"footer"`
}

type Campaign struct {
	Name  string `yaml:"name" json:"name"`
	Title string `yaml:"title" json:"title"`
	Firm  string `yaml:"firm" json:"firm"`
}

type Hero struct {
	Title    string `yaml:"title" json:"title"`
	Subtitle string `yaml:"subtitle" json:"subtitle"`
	Body     string `yaml:"body" json:"body"`
	Action   string `yaml:"action" json:"action"`
}

type Event struct {
	Date        string `yaml:"date" json:"date"`
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
}

type QA struct {
	Question string `yaml:"question" json:"question"`
	Answer   string `yaml:"answer" json:"answer"`
}

type FAQContent struct {
	Case    []QA `yaml:"case" json:"case"`
	General []QA `yaml:"general" json:"general"`
}

type Case struct {
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
	Status      string `yaml:"status" json:"status"`
	Link        string `yaml:"link" json:"link"`
}

type NavItem struct {
	Label    string    `yaml:"label" json:"label"`
	Href     string    `yaml:"href" json:"href"`
	Children []NavItem `yaml:"children,omitempty" json:"children,omitempty"`
}

type CTAContent struct {
	Title  string `yaml:"title" json:"title"`
	Body   string `yaml:"body" json:"body"`
	Action string `yaml:"action" json:"action"`
	Note   string `yaml:"note" json:"note"`
}

// Message is a title plus body shown for a terminal outcome.
type Message struct {
	Title string `yaml:"title" json:"title"`
	Body  string `yaml:"body" json:"body"`
	Note  string `yaml:"note,omitempty" json:"note,omitempty"`
}

type Outcomes struct {
	Rejected  Message `yaml:"rejected" json:"rejected"`
	Submitted Message `yaml:"submitted" json:"submitted"`
}

type Footer struct {
	Copyright  string `yaml:"copyright" json:"copyright"`
	Disclaimer string `yaml:"disclaimer" json:"disclaimer"`
}

// DefaultContent parses the bundled content file.
func DefaultContent() (Content, error) {
	return ParseContent(defaultContent)
}

// MustDefaultContent panics when the bundled content does not parse.
func MustDefaultContent() Content {
	content, err := DefaultContent()
	if err != nil {
		panic(err)
	}
	return content
}

// LoadContent reads a YAML content file from fsys.
func LoadContent(fsys fs.FS, path string) (Content, error) {
	raw, err := fs.ReadFile(fsys, path)
	if err != nil {
		return Content{}, fmt.Errorf("site: read content %q: %w", path, err)
	}
	return ParseContent(raw)
}

// ParseContent decodes and validates YAML content.
func ParseContent(raw []byte) (Content, error) {
	var content Content
	if err := yaml.Unmarshal(raw, &content); err != nil {
		return Content{}, fmt.Errorf("site: decode content: %w", err)
	}
	if err := content.Validate(); err != nil {
		return Content{}, err
	}
	return content, nil
}

// Validate checks the sections the shell cannot render without.
func (c Content) Validate() error {
	var missing []string
	if strings.TrimSpace(c.Campaign.Name) == "" {
		missing = append(missing, "campaign.name")
	}
	if strings.TrimSpace(c.Hero.Title) == "" {
		missing = append(missing, "hero.title")
	}
	if strings.TrimSpace(c.Footer.Disclaimer) == "" {
		missing = append(missing, "footer.disclaimer")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidContent, strings.Join(missing, ", "))
	}
	return nil
}
