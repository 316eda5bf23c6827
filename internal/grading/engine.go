// Package grading evaluates learner answers. Grading is pure: no clock, no
// store, no renderer — a (question, response) pair always grades the same way.
package grading

import (
	"sort"
	"strings"

	"github.com/ericplane/classnotes-quiz/internal/quiz"
)

// Result is the outcome of grading a single question response.
type Result struct {
	Correct    bool
	AutoPoints float64 // full question weight when correct, else 0
	MaxPoints  float64
}

// Strategy grades one question variant. Responses arrive as the loosely typed
// values the answer record holds: string for single/boolean/short_text, a
// string slice for multi. Values restored from persistence may come back as
// []interface{}; strategies normalize that themselves.
type Strategy interface {
	Grade(q quiz.Question, response interface{}) Result
}

// Grader routes a question to the Strategy for its variant. Unrecognized
// variants that carry options grade as single-select.
type Grader struct {
	strategies map[string]Strategy
}

func NewGrader() *Grader {
	return &Grader{
		strategies: map[string]Strategy{
			quiz.TypeSingle:    singleStrategy{},
			quiz.TypeMulti:     multiStrategy{},
			quiz.TypeBoolean:   booleanStrategy{},
			quiz.TypeShortText: shortTextStrategy{},
		},
	}
}

func (g *Grader) Grade(q quiz.Question, response interface{}) Result {
	s, ok := g.strategies[q.Type]
	if !ok {
		s = singleStrategy{}
	}
	return s.Grade(q, response)
}

// --- Strategies ---

type singleStrategy struct{}

// Grade marks the response correct iff it names the first option flagged
// correct. Zero flagged options means the question can never be answered
// correctly; the loader warns about both ambiguous cases.
func (singleStrategy) Grade(q quiz.Question, response interface{}) Result {
	res := Result{MaxPoints: q.Points}
	chosen, _ := response.(string)
	for _, o := range q.Options {
		if o.IsCorrect {
			if o.ID == chosen {
				res.Correct = true
				res.AutoPoints = q.Points
			}
			break
		}
	}
	return res
}

type multiStrategy struct{}

// Grade compares the chosen option-id set against the correct set via
// canonical (sorted) ordering. A missing answer is the empty set, which is
// correct exactly when no option is flagged correct.
func (multiStrategy) Grade(q quiz.Question, response interface{}) Result {
	res := Result{MaxPoints: q.Points}
	var correct []string
	for _, o := range q.Options {
		if o.IsCorrect {
			correct = append(correct, o.ID)
		}
	}
	chosen := toStringSlice(response)
	sort.Strings(correct)
	sort.Strings(chosen)
	if len(correct) != len(chosen) {
		return res
	}
	for i := range correct {
		if correct[i] != chosen[i] {
			return res
		}
	}
	res.Correct = true
	res.AutoPoints = q.Points
	return res
}

type booleanStrategy struct{}

// Grade coerces the response to a bool: true and "true" map to true,
// everything else (including no answer) to false.
func (booleanStrategy) Grade(q quiz.Question, response interface{}) Result {
	res := Result{MaxPoints: q.Points}
	chosen := response == true || response == "true"
	if chosen == q.BoolAnswer {
		res.Correct = true
		res.AutoPoints = q.Points
	}
	return res
}

type shortTextStrategy struct{}

// Grade is a case-insensitive, whitespace-trimmed membership test against the
// acceptable-answers set.
func (shortTextStrategy) Grade(q quiz.Question, response interface{}) Result {
	res := Result{MaxPoints: q.Points}
	chosen, _ := response.(string)
	norm := normalize(chosen)
	for _, a := range q.Acceptable {
		if normalize(a) == norm {
			res.Correct = true
			res.AutoPoints = q.Points
			return res
		}
	}
	return res
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func toStringSlice(v interface{}) []string {
	switch t := v.(type) {
	case []string:
		return t
	case []interface{}:
		out := make([]string, 0, len(t))
		for _, e := range t {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
