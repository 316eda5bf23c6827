package quiz

// Question type discriminators. An empty or unrecognized type with options
// behaves as TypeSingle.
const (
	TypeSingle    = "single"
	TypeMulti     = "multi"
	TypeBoolean   = "boolean"
	TypeShortText = "short_text"
)

type Option struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

type Question struct {
	ID          string
	Type        string
	Prompt      string
	Explanation string
	Points      float64
	Options     []Option // single/multi (and synthesized for boolean at render time)
	BoolAnswer  bool     // boolean
	Acceptable  []string // short_text
}

// Settings carries the recognized per-document options. All default to true.
type Settings struct {
	ShuffleQuestions      bool `json:"shuffleQuestions"`
	ShuffleOptions        bool `json:"shuffleOptions"`
	ShowImmediateFeedback bool `json:"showImmediateFeedback"`
}

func DefaultSettings() Settings {
	return Settings{ShuffleQuestions: true, ShuffleOptions: true, ShowImmediateFeedback: true}
}

// Document is the validated, normalized form of a quiz file. LectureID is the
// persistence scoping key; empty means the quiz is anonymous and no progress or
// attempt history is recorded for it.
type Document struct {
	Title     string
	LectureID string
	Questions []Question
	Settings  Settings
}

// Clone deep-copies the document so a session can reorder questions and
// options without touching the loaded original.
func (d *Document) Clone() *Document {
	out := &Document{
		Title:     d.Title,
		LectureID: d.LectureID,
		Settings:  d.Settings,
		Questions: make([]Question, len(d.Questions)),
	}
	for i, q := range d.Questions {
		cq := q
		if q.Options != nil {
			cq.Options = make([]Option, len(q.Options))
			copy(cq.Options, q.Options)
		}
		if q.Acceptable != nil {
			cq.Acceptable = make([]string, len(q.Acceptable))
			copy(cq.Acceptable, q.Acceptable)
		}
		out.Questions[i] = cq
	}
	return out
}

// PointsTotal sums the weight of every question.
func (d *Document) PointsTotal() float64 {
	var total float64
	for _, q := range d.Questions {
		total += q.Points
	}
	return total
}
