package models

// Topic is one unit of learning content. Topics are loaded once and never mutated.
type Topic struct {
	ID                string             `yaml:"id" json:"id"`
	Title             string             `yaml:"title" json:"title"`
	Description       string             `yaml:"description" json:"description"`
	Icon              string             `yaml:"icon" json:"icon,omitempty"`
	Color             string             `yaml:"color" json:"color,omitempty"`
	Subject           string             `yaml:"subject" json:"subject"`
	Duration          string             `yaml:"duration" json:"duration,omitempty"`
	Difficulty        Difficulty         `yaml:"difficulty" json:"difficulty"`
	Prerequisites     []string           `yaml:"prerequisites" json:"prerequisites"`
	LearningOutcomes  []string           `yaml:"learning_outcomes" json:"learning_outcomes,omitempty"`
	Sections          []Section          `yaml:"sections" json:"sections"`
	PracticeQuestions []PracticeQuestion `yaml:"practice_questions" json:"practice_questions"`
}

// KeyTerms returns every section key term in section order.
func (t Topic) KeyTerms() []string {
	var terms []string
	for _, s := range t.Sections {
		terms = append(terms, s.KeyTerms...)
	}
	return terms
}

func (t Topic) Summary() TopicSummary {
	return TopicSummary{
		ID:            t.ID,
		Title:         t.Title,
		Description:   t.Description,
		Icon:          t.Icon,
		Color:         t.Color,
		Subject:       t.Subject,
		Duration:      t.Duration,
		Difficulty:    t.Difficulty,
		SectionCount:  len(t.Sections),
		QuestionCount: len(t.PracticeQuestions),
	}
}

type Section struct {
	ID         string   `yaml:"id" json:"id"`
	Title      string   `yaml:"title" json:"title"`
	Body       string   `yaml:"body" json:"body"`
	CodeSample string   `yaml:"code_sample" json:"code_sample,omitempty"`
	KeyTerms   []string `yaml:"key_terms" json:"key_terms"`
}

// PracticeQuestion is a multiple-choice question. CorrectOption is a 0-based
// index into Options.
type PracticeQuestion struct {
	ID            string     `yaml:"id" json:"id"`
	Prompt        string     `yaml:"prompt" json:"prompt"`
	Options       []string   `yaml:"options" json:"options"`
	CorrectOption int        `yaml:"correct_option" json:"correct_option"`
	Explanation   string     `yaml:"explanation" json:"explanation"`
	Difficulty    Difficulty `yaml:"difficulty" json:"difficulty"`
}

// IsCorrect reports whether option is the correct choice.
func (q PracticeQuestion) IsCorrect(option int) bool {
	return option == q.CorrectOption
}

// TopicSummary is the compact form of a topic used by the remote search index.
type TopicSummary struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Icon          string     `json:"icon,omitempty"`
	Color         string     `json:"color,omitempty"`
	Subject       string     `json:"subject"`
	Duration      string     `json:"duration,omitempty"`
	Difficulty    Difficulty `json:"difficulty"`
	SectionCount  int        `json:"section_count"`
	QuestionCount int        `json:"question_count"`
}

// QuestionHit is a practice question returned by remote search.
type QuestionHit struct {
	ID            string     `json:"id"`
	TopicID       string     `json:"topic_id"`
	TopicTitle    string     `json:"topic_title"`
	Prompt        string     `json:"prompt"`
	Options       []string   `json:"options"`
	CorrectOption int        `json:"correct_option"`
	Explanation   string     `json:"explanation"`
	Difficulty    Difficulty `json:"difficulty"`
	Subject       string     `json:"subject"`
}

// AllSubjects is the subject filter value that matches every topic.
const AllSubjects = "all"

// SearchFilter narrows a catalog search. Zero values mean no restriction.
type SearchFilter struct {
	Subject    string     `json:"subject,omitempty"`
	Difficulty Difficulty `json:"difficulty,omitempty"`
}

// HasSubject reports whether the filter restricts by subject.
func (f SearchFilter) HasSubject() bool {
	return f.Subject != "" && f.Subject != AllSubjects
}
