package navigation

import (
	"context"

	"github.com/vytor/studystream/internal/catalog"
	"github.com/vytor/studystream/internal/models"
	"github.com/vytor/studystream/internal/progress"
	"github.com/vytor/studystream/internal/quiz"
)

// Answer dot states shown along the quiz progress bar.
const (
	DotPending   = "pending"
	DotCurrent   = "current"
	DotCorrect   = "correct"
	DotIncorrect = "incorrect"
)

// View is the render data for the current state. Exactly one of the
// state-specific fields is set.
type View struct {
	State   string       `json:"state"`
	Catalog *CatalogView `json:"catalog,omitempty"`
	Topic   *TopicView   `json:"topic,omitempty"`
	Quiz    *QuizView    `json:"quiz,omitempty"`
	Review  *ReviewView  `json:"review,omitempty"`
}

type CatalogView struct {
	Subject      string               `json:"subject"`
	Query        string               `json:"query"`
	Source       catalog.Source       `json:"source"`
	Subjects     []string             `json:"subjects"`
	Cards        []TopicCard          `json:"cards"`
	Stats        models.Stats         `json:"stats"`
	Achievements []models.Achievement `json:"achievements"`
}

// TopicCard is one catalog entry with the learner's best completion.
type TopicCard struct {
	models.TopicSummary
	DifficultyLabel string `json:"difficulty_label"`
	DifficultyColor string `json:"difficulty_color"`
	Completion      int    `json:"completion"`
	Completed       bool   `json:"completed"`
}

type TopicView struct {
	Topic        models.TopicSummary   `json:"topic"`
	Outcomes     []string              `json:"learning_outcomes,omitempty"`
	Section      *models.Section       `json:"section,omitempty"`
	SectionIndex int                   `json:"section_index"`
	SectionCount int                   `json:"section_count"`
	Sections     []string              `json:"sections"`
	CanPrev      bool                  `json:"can_prev"`
	CanNext      bool                  `json:"can_next"`
	CanStartQuiz bool                  `json:"can_start_quiz"`
	Completion   int                   `json:"completion"`
	NextTopics   []models.TopicSummary `json:"next_topics,omitempty"`
}

// QuestionView hides the correct option until the question is answered.
type QuestionView struct {
	Prompt     string            `json:"prompt"`
	Options    []string          `json:"options"`
	Difficulty models.Difficulty `json:"difficulty"`
}

type QuizView struct {
	TopicID        string       `json:"topic_id"`
	TopicTitle     string       `json:"topic_title"`
	AttemptID      string       `json:"attempt_id"`
	QuestionIndex  int          `json:"question_index"`
	TotalQuestions int          `json:"total_questions"`
	Question       QuestionView `json:"question"`
	Answered       bool         `json:"answered"`
	SelectedOption *int         `json:"selected_option,omitempty"`
	Correct        *bool        `json:"correct,omitempty"`
	CorrectOption  *int         `json:"correct_option,omitempty"`
	Explanation    string       `json:"explanation,omitempty"`
	IsLast         bool         `json:"is_last"`
	Dots           []string     `json:"dots"`
}

type ReviewView struct {
	quiz.Result
	TopicTitle     string                `json:"topic_title"`
	BestPercentage int                   `json:"best_percentage"`
	NextTopics     []models.TopicSummary `json:"next_topics,omitempty"`
	Related        []models.TopicSummary `json:"related,omitempty"`
}

// View builds the render data for the current state. It does no I/O; the
// catalog cards come from the results of the last SetFilter.
func (c *Controller) View(ctx context.Context) View {
	v := View{State: c.state.String()}
	switch c.state {
	case Catalog:
		v.Catalog = c.catalogView()
	case TopicDetail:
		v.Topic = c.topicView()
	case QuizActive:
		v.Quiz = c.quizView()
	case QuizReview:
		v.Review = c.reviewView()
	}
	return v
}

func (c *Controller) catalogView() *CatalogView {
	snap := c.progress.Snapshot()
	cards := make([]TopicCard, 0, len(c.results))
	for _, t := range c.results {
		pct := snap.Records[t.ID]
		cards = append(cards, TopicCard{
			TopicSummary:    t.Summary(),
			DifficultyLabel: t.Difficulty.Label(),
			DifficultyColor: t.Difficulty.Color(),
			Completion:      pct,
			Completed:       pct >= progress.CompletionThreshold,
		})
	}

	return &CatalogView{
		Subject:      c.subject,
		Query:        c.query,
		Source:       c.source,
		Subjects:     append([]string{models.AllSubjects}, c.content.AllSubjects()...),
		Cards:        cards,
		Stats:        snap.Stats(c.content.Len()),
		Achievements: snap.Achievements(),
	}
}

func (c *Controller) topicView() *TopicView {
	t := c.topic
	v := &TopicView{
		Topic:        t.Summary(),
		Outcomes:     t.LearningOutcomes,
		SectionIndex: c.section,
		SectionCount: len(t.Sections),
		Sections:     make([]string, 0, len(t.Sections)),
		CanPrev:      c.section > 0,
		CanNext:      c.section < len(t.Sections)-1,
		CanStartQuiz: c.CanStartQuiz() && len(t.PracticeQuestions) > 0,
		Completion:   c.progress.Percentage(t.ID),
	}
	for _, s := range t.Sections {
		v.Sections = append(v.Sections, s.Title)
	}
	if len(t.Sections) > 0 {
		section := t.Sections[c.section]
		v.Section = &section
	}
	if !v.CanNext {
		v.NextTopics = summaries(c.content.NextTopics(t.ID, 0))
	}
	return v
}

func (c *Controller) quizView() *QuizView {
	s := c.session
	q, _ := s.CurrentQuestion()
	v := &QuizView{
		TopicID:        c.topic.ID,
		TopicTitle:     c.topic.Title,
		AttemptID:      s.ID(),
		QuestionIndex:  s.QuestionIndex(),
		TotalQuestions: s.TotalQuestions(),
		Question: QuestionView{
			Prompt:     q.Prompt,
			Options:    q.Options,
			Difficulty: q.Difficulty,
		},
		IsLast: s.QuestionIndex() == s.TotalQuestions()-1,
		Dots:   answerDots(s),
	}
	if rec, ok := s.CurrentAnswer(); ok {
		selected, correct, answer := rec.SelectedOption, rec.Correct, q.CorrectOption
		v.Answered = true
		v.SelectedOption = &selected
		v.Correct = &correct
		v.CorrectOption = &answer
		v.Explanation = q.Explanation
	}
	return v
}

func (c *Controller) reviewView() *ReviewView {
	result, _ := c.session.Result()
	return &ReviewView{
		Result:         result,
		TopicTitle:     c.topic.Title,
		BestPercentage: c.progress.Percentage(c.topic.ID),
		NextTopics:     summaries(c.content.NextTopics(c.topic.ID, 0)),
		Related:        summaries(c.content.RelatedTopics(c.topic.ID, 0)),
	}
}

func answerDots(s *quiz.Session) []string {
	dots := make([]string, s.TotalQuestions())
	for i := range dots {
		dots[i] = DotPending
	}
	for _, a := range s.Answers() {
		if a.Correct {
			dots[a.QuestionIndex] = DotCorrect
		} else {
			dots[a.QuestionIndex] = DotIncorrect
		}
	}
	if i := s.QuestionIndex(); i < len(dots) && dots[i] == DotPending {
		dots[i] = DotCurrent
	}
	return dots
}

func summaries(topics []models.Topic) []models.TopicSummary {
	out := make([]models.TopicSummary, 0, len(topics))
	for _, t := range topics {
		out = append(out, t.Summary())
	}
	return out
}
