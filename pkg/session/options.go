package session

import (
	"time"

	"github.com/goliatone/go-claimform/pkg/intake"
	"github.com/goliatone/go-claimform/pkg/signing"
	"github.com/goliatone/go-claimform/pkg/site"
)

// Option configures a Session.
type Option func(*Session)

// WithFormOptions forwards options to every intake form the session builds.
func WithFormOptions(opts ...intake.Option) Option {
	return func(s *Session) {
		s.formOpts = append(s.formOpts, opts...)
	}
}

// WithSigningOptions forwards options to every signing flow.
func WithSigningOptions(opts ...signing.Option) Option {
	return func(s *Session) {
		s.signingOpts = append(s.signingOpts, opts...)
	}
}

// WithContent sizes the carousel and loads FAQ entries from content.
func WithContent(content site.Content) Option {
	return func(s *Session) {
		s.cases = len(content.Cases)
		s.faq = content.FAQ
	}
}

// WithClock overrides the creation time source.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}
