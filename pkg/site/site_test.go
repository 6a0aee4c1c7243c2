package site_test

import (
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-claimform/pkg/site"
	"github.com/goliatone/go-claimform/pkg/transition"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time           { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newCarousel(total, perPage int) (*site.Carousel, *fakeClock) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	lock := transition.New(transition.CarouselCooldown, transition.WithClock(clock.Now))
	return site.NewCarousel(total, site.WithItemsPerPage(perPage), site.WithCarouselLock(lock)), clock
}

func TestDefaultContent(t *testing.T) {
	content, err := site.DefaultContent()
	if err != nil {
		t.Fatalf("default content: %v", err)
	}
	if content.Campaign.Name != "HealthEquity-Agreement" {
		t.Fatalf("campaign name = %q", content.Campaign.Name)
	}
	if len(content.Cases) != 9 {
		t.Fatalf("cases = %d, want 9", len(content.Cases))
	}
	if len(content.FAQ.Case) == 0 || len(content.FAQ.General) == 0 {
		t.Fatalf("faq tabs missing: %+v", content.FAQ)
	}
}

func TestLoadContentRejectsMissingSections(t *testing.T) {
	fsys := fstest.MapFS{
		"content.yaml": {Data: []byte("campaign:\n  name: x\n")},
	}
	_, err := site.LoadContent(fsys, "content.yaml")
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if !strings.Contains(err.Error(), "hero.title") {
		t.Fatalf("error should name missing section, got %v", err)
	}
}

func TestCarouselWrapsForward(t *testing.T) {
	c, clock := newCarousel(9, site.WideItemsPerPage)

	var offsets []int
	for i := 0; i < 4; i++ {
		if !c.Next() {
			t.Fatalf("next %d refused", i)
		}
		offsets = append(offsets, c.Offset())
		clock.Advance(transition.CarouselCooldown)
	}
	if diff := cmp.Diff([]int{3, 6, 0, 3}, offsets); diff != "" {
		t.Fatalf("offset mismatch (-want +got):\n%s", diff)
	}
}

func TestCarouselWrapsBackward(t *testing.T) {
	c, clock := newCarousel(10, site.WideItemsPerPage)
	if !c.Prev() {
		t.Fatalf("prev refused")
	}
	if c.Offset() != 7 {
		t.Fatalf("offset after wrap = %d, want 7", c.Offset())
	}
	clock.Advance(transition.CarouselCooldown)
	c.Prev()
	if c.Offset() != 4 {
		t.Fatalf("offset = %d, want 4", c.Offset())
	}
}

func TestCarouselIgnoresMovesWhileAnimating(t *testing.T) {
	c, clock := newCarousel(9, site.WideItemsPerPage)
	c.Next()
	if !c.Animating() {
		t.Fatalf("expected animating after move")
	}
	if c.Next() || c.Prev() || c.GoTo(0) {
		t.Fatalf("move accepted during cool-down")
	}
	if c.Offset() != 3 {
		t.Fatalf("offset changed during cool-down: %d", c.Offset())
	}
	clock.Advance(transition.CarouselCooldown)
	if !c.GoTo(2) {
		t.Fatalf("goto refused after cool-down")
	}
	start, end := c.Visible()
	if start != 6 || end != 9 {
		t.Fatalf("visible = [%d,%d), want [6,9)", start, end)
	}
}

func TestCarouselGoToOutOfRange(t *testing.T) {
	c, _ := newCarousel(9, site.WideItemsPerPage)
	if c.GoTo(3) || c.GoTo(-1) {
		t.Fatalf("out of range page accepted")
	}
	if c.Animating() {
		t.Fatalf("rejected move should not start the lock")
	}
}

func TestCarouselLayoutSwitch(t *testing.T) {
	c, clock := newCarousel(9, site.NarrowItemsPerPage)
	if c.Pages() != 9 {
		t.Fatalf("narrow pages = %d", c.Pages())
	}
	for i := 0; i < 4; i++ {
		c.Next()
		clock.Advance(transition.CarouselCooldown)
	}
	c.SetWide(true)
	if c.Offset() != 3 || c.Page() != 1 {
		t.Fatalf("after widening offset=%d page=%d", c.Offset(), c.Page())
	}
	if c.Pages() != 3 {
		t.Fatalf("wide pages = %d", c.Pages())
	}
}

func TestMenuToggleCooldown(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	menu := site.NewMenu(transition.New(transition.MenuCooldown, transition.WithClock(clock.Now)))

	if !menu.Toggle() || !menu.IsOpen() {
		t.Fatalf("expected open menu")
	}
	if menu.Toggle() {
		t.Fatalf("toggle accepted during cool-down")
	}
	clock.Advance(transition.MenuCooldown)
	if !menu.Toggle() || menu.IsOpen() {
		t.Fatalf("expected closed menu")
	}
	menu.Toggle()
	menu.Close()
	if menu.IsOpen() {
		t.Fatalf("close should not wait for the lock")
	}
}

func TestFAQTabsAndToggles(t *testing.T) {
	faq := site.NewFAQ(site.MustDefaultContent().FAQ)
	if faq.Tab() != site.FAQTabCase {
		t.Fatalf("default tab = %s", faq.Tab())
	}
	faq.Toggle(2)
	faq.Toggle(0)
	faq.Toggle(2)
	if diff := cmp.Diff([]int{0}, faq.OpenItems()); diff != "" {
		t.Fatalf("open items mismatch (-want +got):\n%s", diff)
	}
	if faq.Toggle(99) {
		t.Fatalf("out of range toggle accepted")
	}
	if err := faq.SelectTab(site.FAQTabGeneral); err != nil {
		t.Fatalf("select tab: %v", err)
	}
	if faq.Items()[0].Question != "Do I need to pay any upfront fees?" {
		t.Fatalf("general tab items = %+v", faq.Items()[0])
	}
	if err := faq.SelectTab("other"); err == nil {
		t.Fatalf("expected unknown tab error")
	}
}

func TestCTAPlacement(t *testing.T) {
	policy := site.DefaultCTAPolicy()
	cases := []struct {
		hero, footer bool
		want         site.Placement
	}{
		{true, false, site.PlacementHidden},
		{true, true, site.PlacementHidden},
		{false, false, site.PlacementFloating},
		{false, true, site.PlacementRaised},
	}
	for _, tc := range cases {
		if got := policy.Placement(tc.hero, tc.footer); got != tc.want {
			t.Fatalf("placement(hero=%v, footer=%v) = %s, want %s", tc.hero, tc.footer, got, tc.want)
		}
	}
	if got := (site.CTAPolicy{}).Placement(true, true); got != site.PlacementFloating {
		t.Fatalf("disabled policy placement = %s", got)
	}
}

func TestHeaderSolid(t *testing.T) {
	if site.HeaderSolid(20, false) {
		t.Fatalf("threshold is exclusive")
	}
	if !site.HeaderSolid(21, false) || !site.HeaderSolid(0, true) {
		t.Fatalf("expected solid header")
	}
}

func TestThemeVariantOverridesTokens(t *testing.T) {
	themes, err := site.NewThemes()
	if err != nil {
		t.Fatalf("new themes: %v", err)
	}
	selection, err := themes.Select(site.DefaultThemeName, "dark")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	cfg := site.Config(selection)
	if cfg.Variant != "dark" {
		t.Fatalf("variant = %q", cfg.Variant)
	}
	if cfg.CSSVars["--surface"] != "#111827" {
		t.Fatalf("surface var = %q", cfg.CSSVars["--surface"])
	}
	if cfg.CSSVars["--brand"] != "#2563eb" {
		t.Fatalf("brand var = %q", cfg.CSSVars["--brand"])
	}
	if got := cfg.AssetURL("stylesheet"); got != "/assets/site.css" {
		t.Fatalf("stylesheet url = %q", got)
	}
}

func TestThemeUnknownNamesFallBack(t *testing.T) {
	themes, err := site.NewThemes()
	if err != nil {
		t.Fatalf("new themes: %v", err)
	}
	selection, _ := themes.Select("missing", "neon")
	if selection.Theme != site.DefaultThemeName || selection.Variant != "" {
		t.Fatalf("selection = %s/%s", selection.Theme, selection.Variant)
	}
}

func TestCSSVarsStyleSorted(t *testing.T) {
	got := site.CSSVarsStyle(map[string]string{"--b": "2", "--a": "1"})
	if got != "--a: 1; --b: 2;" {
		t.Fatalf("style = %q", got)
	}
}
