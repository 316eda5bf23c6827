// Package session drives one open-to-close lifetime of a quiz: document load,
// per-session randomization, answer bookkeeping, navigation and the terminal
// submit that produces a scored result. Each Session is an independent value;
// opening several at once is fine as long as each one is used from a single
// goroutine (the Manager serializes HTTP access).
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"math/rand"
	"time"

	"github.com/ericplane/classnotes-quiz/internal/grading"
	"github.com/ericplane/classnotes-quiz/internal/progress"
	"github.com/ericplane/classnotes-quiz/internal/quiz"
	"github.com/ericplane/classnotes-quiz/internal/render"
	"github.com/ericplane/classnotes-quiz/internal/shuffle"
)

type State int

const (
	StateLoading State = iota
	StateActive
	StateSubmitted
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateSubmitted:
		return "submitted"
	default:
		return "loading"
	}
}

var (
	// ErrNotActive is returned for select/goto after submission.
	ErrNotActive = errors.New("session is not active")
	// ErrUnknownQuestion is returned when an answer names a question id the
	// document does not contain.
	ErrUnknownQuestion = errors.New("unknown question id")
)

// Config carries the session's collaborators. Zero-value fields get safe
// defaults: passthrough rendering, no typesetting, in-memory persistence and a
// time-seeded rand source.
type Config struct {
	Source     quiz.Source
	Store      progress.Store
	Renderer   render.Renderer
	Typesetter render.Typesetter
	Rand       *rand.Rand
	Now        func() time.Time
}

func (c Config) withDefaults() Config {
	if c.Store == nil {
		c.Store = progress.NewMemoryStore()
	}
	if c.Renderer == nil {
		c.Renderer = render.Passthrough{}
	}
	if c.Typesetter == nil {
		c.Typesetter = render.NoopTypesetter{}
	}
	if c.Rand == nil {
		c.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	return c
}

type Session struct {
	state     State
	doc       *quiz.Document
	questions []quiz.Question // session order, fixed after Open
	answers   map[string]interface{}
	current   int
	startedAt time.Time
	learnerID string
	warnings  []quiz.Warning
	result    *ResultView // cached after submit

	grader *grading.Grader
	cfg    Config
}

// Open fetches, validates and normalizes the referenced quiz document,
// applies the session's one-time shuffle and restores any in-progress record
// for the lecture. The start timestamp is always "now": duration measures
// time since the last resume, not total wall time across resumes.
func Open(ctx context.Context, ref, learnerID string, cfg Config) (*Session, error) {
	cfg = cfg.withDefaults()

	raw, err := cfg.Source.Fetch(ctx, ref)
	if err != nil {
		return nil, err
	}
	doc, warnings, err := quiz.Load(raw)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		log.Printf("quiz %s: %s", ref, w)
	}

	s := &Session{
		state:     StateLoading,
		doc:       doc.Clone(),
		answers:   map[string]interface{}{},
		learnerID: learnerID,
		warnings:  warnings,
		grader:    grading.NewGrader(),
		cfg:       cfg,
	}

	s.questions = s.doc.Questions
	if s.doc.Settings.ShuffleQuestions {
		s.questions = shuffle.Permute(cfg.Rand, s.questions)
	}
	if s.doc.Settings.ShuffleOptions {
		for i := range s.questions {
			if len(s.questions[i].Options) > 0 {
				s.questions[i].Options = shuffle.Permute(cfg.Rand, s.questions[i].Options)
			}
		}
	}

	if s.doc.LectureID != "" {
		snap, ok, err := cfg.Store.LoadProgress(ctx, learnerID, s.doc.LectureID)
		if err != nil {
			log.Printf("progress restore failed for %s: %v", s.doc.LectureID, err)
		} else if ok {
			s.current = clamp(snap.CurrentIndex, 0, len(s.questions)-1)
			if snap.Answers != nil {
				s.answers = snap.Answers
			}
		}
	}

	s.startedAt = cfg.Now()
	s.state = StateActive
	return s, nil
}

// Warnings reports authoring problems found at load time.
func (s *Session) Warnings() []quiz.Warning { return s.warnings }

// Select records an answer for the named question. Any question in the
// document is addressable, not just the current one: hosts normally emit the
// current question's id, but the wider contract lets a host answer out of
// order without navigating first. Multi-select values toggle one option id in
// the chosen set; boolean values are canonicalized to "true"/"false"; every
// other variant replaces the prior answer. The updated snapshot is persisted
// best-effort before returning.
func (s *Session) Select(ctx context.Context, questionID string, value interface{}) (*View, error) {
	if s.state != StateActive {
		return nil, ErrNotActive
	}
	q, ok := s.question(questionID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownQuestion, questionID)
	}

	switch q.Type {
	case quiz.TypeMulti:
		id, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("multi-select value must be an option id string")
		}
		s.answers[q.ID] = toggle(asStringSlice(s.answers[q.ID]), id)
	case quiz.TypeBoolean:
		// canonicalize to the synthesized option ids so the stored value,
		// the rendered selection and grading's coercion all agree
		if value == true || value == "true" {
			s.answers[q.ID] = "true"
		} else {
			s.answers[q.ID] = "false"
		}
	default:
		s.answers[q.ID] = value
	}

	s.persist(ctx)
	return s.View(), nil
}

// Goto clamps the requested index into range and makes it current. Navigating
// to the already-current index is a no-op apart from the returned view.
func (s *Session) Goto(ctx context.Context, index int) (*View, error) {
	if s.state != StateActive {
		return nil, ErrNotActive
	}
	s.current = clamp(index, 0, len(s.questions)-1)
	s.persist(ctx)
	return s.View(), nil
}

// Submit grades every question, records the attempt (when the lecture is
// known) and moves the session to its terminal state. The in-progress record
// is deliberately kept so the learner can resume for review; a retake clears
// it explicitly. Submitting twice returns the same result.
func (s *Session) Submit(ctx context.Context) (*View, error) {
	if s.state == StateSubmitted {
		return s.View(), nil
	}
	if s.state != StateActive {
		return nil, ErrNotActive
	}

	var score, pointsTotal float64
	review := make([]ReviewEntry, 0, len(s.questions))
	for i, q := range s.questions {
		res := s.grader.Grade(q, s.answers[q.ID])
		score += res.AutoPoints
		pointsTotal += q.Points
		review = append(review, ReviewEntry{
			Index:           i,
			QuestionID:      q.ID,
			PromptHTML:      s.html(q.Prompt),
			Correct:         res.Correct,
			ExplanationHTML: s.html(q.Explanation),
		})
	}

	percent := 0
	if pointsTotal > 0 {
		percent = int(math.Round(score / pointsTotal * 100))
	}
	now := s.cfg.Now()
	duration := int64(math.Floor(now.Sub(s.startedAt).Seconds()))

	s.result = &ResultView{
		Score:           score,
		PointsTotal:     pointsTotal,
		Percent:         percent,
		DurationSeconds: duration,
		Review:          review,
	}
	s.state = StateSubmitted

	if s.doc.LectureID != "" {
		a := progress.Attempt{
			Timestamp:       now.Unix(),
			Score:           score,
			PointsTotal:     pointsTotal,
			Percent:         percent,
			DurationSeconds: duration,
		}
		if err := s.cfg.Store.AppendAttempt(ctx, s.learnerID, s.doc.LectureID, a); err != nil {
			log.Printf("attempt record failed for %s: %v", s.doc.LectureID, err)
		}
	}
	return s.View(), nil
}

func (s *Session) question(id string) (quiz.Question, bool) {
	for _, q := range s.questions {
		if q.ID == id {
			return q, true
		}
	}
	return quiz.Question{}, false
}

// persist writes the current snapshot; failures are logged and swallowed so
// the quiz stays usable without durability.
func (s *Session) persist(ctx context.Context) {
	if s.doc.LectureID == "" {
		return
	}
	snap := progress.Snapshot{CurrentIndex: s.current, Answers: s.answers}
	if err := s.cfg.Store.SaveProgress(ctx, s.learnerID, s.doc.LectureID, snap); err != nil {
		log.Printf("progress save failed for %s: %v", s.doc.LectureID, err)
	}
}

func (s *Session) html(src string) string {
	return s.cfg.Typesetter.Typeset(s.cfg.Renderer.HTML(src))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// toggle adds id to the chosen set, or removes it when already present.
func toggle(chosen []string, id string) []string {
	for i, c := range chosen {
		if c == id {
			return append(chosen[:i:i], chosen[i+1:]...)
		}
	}
	return append(chosen, id)
}

func asStringSlice(v interface{}) []string {
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
