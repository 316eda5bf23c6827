package session

import "github.com/ericplane/classnotes-quiz/internal/quiz"

// View is the render payload handed to the host: header (title), progress
// indicator, body (current question or final results) and footer button
// states. The host owns the actual surface; the engine only describes it.
type View struct {
	Title           string        `json:"title"`
	State           string        `json:"state"`
	ProgressPercent int           `json:"progress_percent"`
	Index           int           `json:"index"`
	Total           int           `json:"total"`
	Question        *QuestionView `json:"question,omitempty"`
	Result          *ResultView   `json:"result,omitempty"`
	Footer          Footer        `json:"footer"`
}

type QuestionView struct {
	ID         string       `json:"id"`
	Type       string       `json:"type"`
	PromptHTML string       `json:"prompt_html"`
	Options    []OptionView `json:"options,omitempty"`
	Answer     interface{}  `json:"answer,omitempty"`
	Feedback   *Feedback    `json:"feedback,omitempty"`
}

type OptionView struct {
	ID       string `json:"id"`
	TextHTML string `json:"text_html"`
	Selected bool   `json:"selected"`
}

// Feedback is attached when showImmediateFeedback is on and the current
// question has an answer.
type Feedback struct {
	Correct         bool   `json:"correct"`
	ExplanationHTML string `json:"explanation_html,omitempty"`
}

type Footer struct {
	CanBack   bool `json:"can_back"`
	CanNext   bool `json:"can_next"`
	CanSubmit bool `json:"can_submit"`
}

type ResultView struct {
	Score           float64       `json:"score"`
	PointsTotal     float64       `json:"points_total"`
	Percent         int           `json:"percent"`
	DurationSeconds int64         `json:"duration_seconds"`
	Review          []ReviewEntry `json:"review"`
}

type ReviewEntry struct {
	Index           int    `json:"index"`
	QuestionID      string `json:"question_id"`
	PromptHTML      string `json:"prompt_html"`
	Correct         bool   `json:"correct"`
	ExplanationHTML string `json:"explanation_html,omitempty"`
}

// View renders the current session state.
func (s *Session) View() *View {
	total := len(s.questions)
	v := &View{
		Title: s.doc.Title,
		State: s.state.String(),
		Index: s.current,
		Total: total,
		Footer: Footer{
			CanBack:   s.state == StateActive && s.current > 0,
			CanNext:   s.state == StateActive && s.current < total-1,
			CanSubmit: s.state == StateActive,
		},
	}
	if total > 0 {
		v.ProgressPercent = (s.current + 1) * 100 / total
	}
	if s.state == StateSubmitted {
		v.ProgressPercent = 100
		v.Result = s.result
		return v
	}
	v.Question = s.questionView(s.questions[s.current])
	return v
}

func (s *Session) questionView(q quiz.Question) *QuestionView {
	answer := s.answers[q.ID]
	qv := &QuestionView{
		ID:         q.ID,
		Type:       q.Type,
		PromptHTML: s.html(q.Prompt),
		Answer:     answer,
	}

	switch q.Type {
	case quiz.TypeShortText:
		// free-text input; no options
	case quiz.TypeBoolean:
		// synthesized true/false pair; correctness lives on the question
		chosen, _ := answer.(string)
		qv.Options = []OptionView{
			{ID: "true", TextHTML: s.html("True"), Selected: chosen == "true"},
			{ID: "false", TextHTML: s.html("False"), Selected: chosen == "false"},
		}
	default:
		chosen := asStringSlice(answer)
		single, _ := answer.(string)
		qv.Options = make([]OptionView, 0, len(q.Options))
		for _, o := range q.Options {
			selected := single == o.ID
			if q.Type == quiz.TypeMulti {
				selected = contains(chosen, o.ID)
			}
			qv.Options = append(qv.Options, OptionView{
				ID:       o.ID,
				TextHTML: s.html(o.Text),
				Selected: selected,
			})
		}
	}

	if s.doc.Settings.ShowImmediateFeedback && answer != nil {
		res := s.grader.Grade(q, answer)
		qv.Feedback = &Feedback{
			Correct:         res.Correct,
			ExplanationHTML: s.html(q.Explanation),
		}
	}
	return qv
}

func contains(ss []string, v string) bool {
	for _, s := range ss {
		if s == v {
			return true
		}
	}
	return false
}
