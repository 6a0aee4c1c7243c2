package site

import (
	"time"

	"github.com/goliatone/go-claimform/pkg/transition"
)

// Items per page for the two layout widths.
const (
	WideItemsPerPage   = 3
	NarrowItemsPerPage = 1
)

// Carousel pages through the case cards. Every move is guarded by a
// transition lock; moves attempted while a slide is animating are ignored.
type Carousel struct {
	total   int
	perPage int
	offset  int
	lock    *transition.Lock
}

// CarouselOption configures a Carousel.
type CarouselOption func(*carouselConfig)

type carouselConfig struct {
	perPage int
	lock    *transition.Lock
}

// WithItemsPerPage sets the page width.
func WithItemsPerPage(n int) CarouselOption {
	return func(cfg *carouselConfig) {
		cfg.perPage = n
	}
}

// WithCarouselLock replaces the default 500ms transition lock.
func WithCarouselLock(lock *transition.Lock) CarouselOption {
	return func(cfg *carouselConfig) {
		cfg.lock = lock
	}
}

// NewCarousel builds a carousel over total items, showing the first page.
func NewCarousel(total int, opts ...CarouselOption) *Carousel {
	cfg := carouselConfig{perPage: WideItemsPerPage}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.lock == nil {
		cfg.lock = transition.New(transition.CarouselCooldown)
	}
	c := &Carousel{total: max(total, 0), lock: cfg.lock}
	c.SetItemsPerPage(cfg.perPage)
	return c
}

// ItemsPerPage returns the current page width.
func (c *Carousel) ItemsPerPage() int {
	return c.perPage
}

// SetItemsPerPage switches layouts. The offset snaps to the page containing
// the current first item.
func (c *Carousel) SetItemsPerPage(n int) {
	if n < 1 {
		n = 1
	}
	c.perPage = n
	c.offset = (c.offset / n) * n
}

// SetWide picks the wide or narrow layout.
func (c *Carousel) SetWide(wide bool) {
	if wide {
		c.SetItemsPerPage(WideItemsPerPage)
		return
	}
	c.SetItemsPerPage(NarrowItemsPerPage)
}

// Pages returns the number of pages, at least one.
func (c *Carousel) Pages() int {
	if c.total == 0 {
		return 1
	}
	return (c.total + c.perPage - 1) / c.perPage
}

// Page returns the zero-based current page.
func (c *Carousel) Page() int {
	return c.offset / c.perPage
}

// Offset returns the index of the first visible item.
func (c *Carousel) Offset() int {
	return c.offset
}

// Visible returns the [start, end) item range on screen.
func (c *Carousel) Visible() (int, int) {
	return c.offset, min(c.offset+c.perPage, c.total)
}

// Animating reports whether a slide is still in its cool-down.
func (c *Carousel) Animating() bool {
	return c.lock.State() == transition.StateAnimating
}

// Next advances one page, wrapping to the start after the last page. It
// reports whether the move happened.
func (c *Carousel) Next() bool {
	if !c.lock.TryAcquire() {
		return false
	}
	if c.offset+c.perPage >= c.total {
		c.offset = 0
	} else {
		c.offset += c.perPage
	}
	return true
}

// Prev moves back one page, wrapping to the last full page from the start.
func (c *Carousel) Prev() bool {
	if !c.lock.TryAcquire() {
		return false
	}
	if c.offset-c.perPage < 0 {
		c.offset = max(c.total-c.perPage, 0)
	} else {
		c.offset -= c.perPage
	}
	return true
}

// GoTo jumps to a zero-based page. Out-of-range pages are ignored.
func (c *Carousel) GoTo(page int) bool {
	if page < 0 || page >= c.Pages() {
		return false
	}
	if !c.lock.TryAcquire() {
		return false
	}
	c.offset = page * c.perPage
	return true
}

// Cooldown exposes the lock window for client-side animation timing.
func (c *Carousel) Cooldown() time.Duration {
	return c.lock.Cooldown()
}
