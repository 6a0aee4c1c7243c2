package site

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownTab is returned when selecting a tab that does not exist.
var ErrUnknownTab = errors.New("site: unknown faq tab")

// FAQTab selects a question set.
type FAQTab string

const (
	FAQTabCase    FAQTab = "case"
	FAQTabGeneral FAQTab = "general"
)

// FAQ tracks the active tab and which items are expanded.
type FAQ struct {
	content FAQContent
	tab     FAQTab
	open    map[int]bool
}

// NewFAQ starts on the case tab with everything collapsed.
func NewFAQ(content FAQContent) *FAQ {
	return &FAQ{content: content, tab: FAQTabCase, open: map[int]bool{}}
}

// Tab returns the active tab.
func (f *FAQ) Tab() FAQTab {
	return f.tab
}

// SelectTab switches tabs. Expanded items carry over by index, as they do on
// the page.
func (f *FAQ) SelectTab(tab FAQTab) error {
	switch tab {
	case FAQTabCase, FAQTabGeneral:
		f.tab = tab
		return nil
	}
	return fmt.Errorf("%w %q", ErrUnknownTab, tab)
}

// Items returns the questions of the active tab.
func (f *FAQ) Items() []QA {
	if f.tab == FAQTabGeneral {
		return f.content.General
	}
	return f.content.Case
}

// Toggle expands or collapses item i of the active tab.
func (f *FAQ) Toggle(i int) bool {
	if i < 0 || i >= len(f.Items()) {
		return false
	}
	if f.open[i] {
		delete(f.open, i)
	} else {
		f.open[i] = true
	}
	return true
}

// IsOpen reports whether item i is expanded.
func (f *FAQ) IsOpen(i int) bool {
	return f.open[i]
}

// OpenItems returns expanded indexes in ascending order.
func (f *FAQ) OpenItems() []int {
	out := make([]int, 0, len(f.open))
	for i := range f.open {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}
