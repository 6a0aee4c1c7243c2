package jurisdictions

import "github.com/goliatone/go-claimform/pkg/model"

// EmptySearchMode decides what an empty query returns.
type EmptySearchMode string

const (
	EmptySearchNone EmptySearchMode = "none"
	EmptySearchAll  EmptySearchMode = "all"
)

type Options struct {
	RoutePath       string
	SearchParam     string
	LimitParam      string
	DefaultLimit    int
	MaxLimit        int
	EmptySearchMode EmptySearchMode

	// Jurisdictions overrides the catalog list.
	Jurisdictions []model.Jurisdiction
}

type OptionFn func(*Options)

func DefaultOptions() Options {
	return Options{
		RoutePath:       "/jurisdictions",
		SearchParam:     "q",
		LimitParam:      "limit",
		DefaultLimit:    10,
		MaxLimit:        60,
		EmptySearchMode: EmptySearchAll,
	}
}

func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = 10
	}
	if opts.MaxLimit <= 0 {
		opts.MaxLimit = 60
	}
	if opts.EmptySearchMode == "" {
		opts.EmptySearchMode = EmptySearchAll
	}
	if opts.RoutePath == "" {
		opts.RoutePath = "/jurisdictions"
	}
	if opts.SearchParam == "" {
		opts.SearchParam = "q"
	}
	if opts.LimitParam == "" {
		opts.LimitParam = "limit"
	}
	if opts.Jurisdictions != nil {
		opts.Jurisdictions = append([]model.Jurisdiction{}, opts.Jurisdictions...)
	}
	return opts
}

func WithRoutePath(path string) OptionFn {
	return func(o *Options) {
		o.RoutePath = path
	}
}

func WithDefaultLimit(limit int) OptionFn {
	return func(o *Options) {
		o.DefaultLimit = limit
	}
}

func WithMaxLimit(limit int) OptionFn {
	return func(o *Options) {
		o.MaxLimit = limit
	}
}

func WithEmptySearchMode(mode EmptySearchMode) OptionFn {
	return func(o *Options) {
		o.EmptySearchMode = mode
	}
}

func WithJurisdictions(list []model.Jurisdiction) OptionFn {
	return func(o *Options) {
		if list == nil {
			o.Jurisdictions = nil
			return
		}
		o.Jurisdictions = append([]model.Jurisdiction{}, list...)
	}
}

func clampLimit(limit int, opts Options) int {
	if limit < 0 {
		return 0
	}
	if limit == 0 {
		limit = opts.DefaultLimit
	}
	if opts.MaxLimit > 0 && limit > opts.MaxLimit {
		return opts.MaxLimit
	}
	return limit
}
