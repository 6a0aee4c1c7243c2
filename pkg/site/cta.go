package site

// Placement is where the floating call-to-action sits.
type Placement string

const (
	PlacementHidden   Placement = "hidden"
	PlacementFloating Placement = "floating"
	PlacementRaised   Placement = "raised"
)

// CTAPolicy configures the floating call-to-action.
type CTAPolicy struct {
	// HideWhileHeroVisible hides the CTA while the hero's own button is on
	// screen.
	HideWhileHeroVisible bool `yaml:"hide_while_hero_visible" json:"hideWhileHeroVisible" mapstructure:"hide_while_hero_visible"`
	// RaiseNearFooter lifts the CTA clear of the footer once it scrolls into
	// view.
	RaiseNearFooter bool `yaml:"raise_near_footer" json:"raiseNearFooter" mapstructure:"raise_near_footer"`
}

// DefaultCTAPolicy enables both behaviours.
func DefaultCTAPolicy() CTAPolicy {
	return CTAPolicy{HideWhileHeroVisible: true, RaiseNearFooter: true}
}

// Placement resolves the CTA position from section visibility.
func (p CTAPolicy) Placement(heroVisible, footerVisible bool) Placement {
	if p.HideWhileHeroVisible && heroVisible {
		return PlacementHidden
	}
	if p.RaiseNearFooter && footerVisible {
		return PlacementRaised
	}
	return PlacementFloating
}

// HeaderScrollThreshold is the scroll offset, in pixels, after which the
// header switches to its solid background.
const HeaderScrollThreshold = 20

// HeaderSolid reports whether the header should use its solid style.
func HeaderSolid(scrollY int, menuOpen bool) bool {
	return menuOpen || scrollY > HeaderScrollThreshold
}
