package quiz

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ValidationError reports a structurally unusable quiz document.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid quiz document: " + e.Reason
}

// Warning flags an authoring problem that does not prevent the quiz from
// running (ambiguous answer keys, duplicate ids). The evaluator falls back to
// first-correct-wins semantics for flagged single questions.
type Warning struct {
	QuestionID string `json:"question_id,omitempty"`
	Message    string `json:"message"`
}

func (w Warning) String() string {
	if w.QuestionID == "" {
		return w.Message
	}
	return fmt.Sprintf("question %q: %s", w.QuestionID, w.Message)
}

type rawSettings struct {
	ShuffleQuestions      *bool `json:"shuffleQuestions"`
	ShuffleOptions        *bool `json:"shuffleOptions"`
	ShowImmediateFeedback *bool `json:"showImmediateFeedback"`
}

// merge applies document settings over the defaults; keys the author supplied
// win, everything else keeps its documented default.
func (rs rawSettings) merge() Settings {
	s := DefaultSettings()
	if rs.ShuffleQuestions != nil {
		s.ShuffleQuestions = *rs.ShuffleQuestions
	}
	if rs.ShuffleOptions != nil {
		s.ShuffleOptions = *rs.ShuffleOptions
	}
	if rs.ShowImmediateFeedback != nil {
		s.ShowImmediateFeedback = *rs.ShowImmediateFeedback
	}
	return s
}

type rawQuestion struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	Prompt      string          `json:"prompt"`
	Explanation string          `json:"explanation"`
	Points      *float64        `json:"points"`
	Options     []Option        `json:"options"`
	Answer      json.RawMessage `json:"answer"`
}

type rawDocument struct {
	Title       string          `json:"title"`
	LecturePath string          `json:"lecturePath"`
	Questions   json.RawMessage `json:"questions"`
	Settings    rawSettings     `json:"settings"`
}

// Load parses, validates and normalizes a raw quiz document. The returned
// document is built from fresh allocations; the caller's bytes are never
// referenced afterwards. Authoring problems that the engine can work around
// come back as warnings rather than errors.
func Load(raw []byte) (*Document, []Warning, error) {
	var rd rawDocument
	if err := json.Unmarshal(raw, &rd); err != nil {
		return nil, nil, &ValidationError{Reason: err.Error()}
	}
	if len(rd.Questions) == 0 || bytes.Equal(rd.Questions, []byte("null")) {
		return nil, nil, &ValidationError{Reason: "questions sequence is missing"}
	}
	var rqs []rawQuestion
	if err := json.Unmarshal(rd.Questions, &rqs); err != nil {
		return nil, nil, &ValidationError{Reason: "questions is not a sequence"}
	}
	if len(rqs) == 0 {
		return nil, nil, &ValidationError{Reason: "questions sequence is empty"}
	}

	doc := &Document{
		Title:     rd.Title,
		LectureID: rd.LecturePath,
		Settings:  rd.Settings.merge(),
		Questions: make([]Question, 0, len(rqs)),
	}

	var warnings []Warning
	seen := make(map[string]bool, len(rqs))
	for _, rq := range rqs {
		q, qw := normalizeQuestion(rq)
		if seen[q.ID] {
			warnings = append(warnings, Warning{QuestionID: q.ID, Message: "duplicate question id"})
		}
		seen[q.ID] = true
		warnings = append(warnings, qw...)
		doc.Questions = append(doc.Questions, q)
	}
	return doc, warnings, nil
}

func normalizeQuestion(rq rawQuestion) (Question, []Warning) {
	q := Question{
		ID:          rq.ID,
		Type:        rq.Type,
		Prompt:      rq.Prompt,
		Explanation: rq.Explanation,
		Points:      1,
	}
	if q.Type == "" {
		q.Type = TypeSingle
	}
	if rq.Points != nil && *rq.Points >= 0 {
		q.Points = *rq.Points
	}

	var warnings []Warning
	warn := func(msg string) {
		warnings = append(warnings, Warning{QuestionID: q.ID, Message: msg})
	}

	switch q.Type {
	case TypeBoolean:
		if len(rq.Answer) > 0 {
			if err := json.Unmarshal(rq.Answer, &q.BoolAnswer); err != nil {
				warn("boolean answer is not true or false")
			}
		} else {
			warn("boolean question has no answer")
		}
	case TypeShortText:
		var aux struct {
			Acceptable []string `json:"acceptable"`
		}
		if len(rq.Answer) > 0 {
			if err := json.Unmarshal(rq.Answer, &aux); err != nil {
				warn("short_text answer is malformed")
			}
		}
		q.Acceptable = aux.Acceptable
		if len(q.Acceptable) == 0 {
			warn("short_text question has no acceptable answers")
		}
	default:
		// single, multi and any unrecognized option-backed variant
		q.Options = make([]Option, len(rq.Options))
		copy(q.Options, rq.Options)
		optSeen := make(map[string]bool, len(q.Options))
		correct := 0
		for _, o := range q.Options {
			if optSeen[o.ID] {
				warn("duplicate option id " + o.ID)
			}
			optSeen[o.ID] = true
			if o.IsCorrect {
				correct++
			}
		}
		if q.Type != TypeMulti {
			if correct == 0 {
				warn("no option marked correct")
			} else if correct > 1 {
				warn("multiple options marked correct; first one wins")
			}
		}
	}
	return q, warnings
}
