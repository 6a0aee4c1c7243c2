package model

import (
	"fmt"
	"strings"
)

// Answer is a tri-state response to a yes/no question. The zero value means
// the claimant has not answered yet.
type Answer string

const (
	AnswerUnset Answer = ""
	AnswerYes   Answer = "yes"
	AnswerNo    Answer = "no"
)

// ParseAnswer normalises raw input into an Answer. Empty input maps to
// AnswerUnset; anything other than yes/no is rejected.
func ParseAnswer(raw string) (Answer, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return AnswerUnset, nil
	case "yes", "y", "true":
		return AnswerYes, nil
	case "no", "n", "false":
		return AnswerNo, nil
	default:
		return AnswerUnset, fmt.Errorf("%w %q", ErrInvalidAnswer, raw)
	}
}

// IsSet reports whether the question has been answered.
func (a Answer) IsSet() bool {
	return a == AnswerYes || a == AnswerNo
}

// Choose returns affirmative when the answer is yes and negative otherwise.
// Unanswered questions read as negative, matching how the declaration renders
// them.
func (a Answer) Choose(affirmative, negative string) string {
	if a == AnswerYes {
		return affirmative
	}
	return negative
}

func (a Answer) String() string {
	return string(a)
}
