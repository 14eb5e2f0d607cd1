// Package navigation drives the learner through catalog browsing, topic
// reading and quizzes. It owns the only externally observable state machine.
package navigation

import (
	"context"

	"github.com/vytor/studystream/internal/catalog"
	"github.com/vytor/studystream/internal/content"
	"github.com/vytor/studystream/internal/errors"
	"github.com/vytor/studystream/internal/logger"
	"github.com/vytor/studystream/internal/models"
	"github.com/vytor/studystream/internal/progress"
	"github.com/vytor/studystream/internal/quiz"
)

type State int

const (
	Catalog State = iota
	TopicDetail
	QuizActive
	QuizReview
)

func (s State) String() string {
	switch s {
	case Catalog:
		return "catalog"
	case TopicDetail:
		return "topic_detail"
	case QuizActive:
		return "quiz_active"
	case QuizReview:
		return "quiz_review"
	default:
		return "unknown"
	}
}

// Controller is single-threaded; callers serialize access.
type Controller struct {
	content  *content.Catalog
	filter   *catalog.Filter
	progress *progress.Store

	state   State
	topic   models.Topic
	section int
	session *quiz.Session

	subject string
	query   string
	// results of the last filter change; the catalog view renders from these
	results []models.Topic
	source  catalog.Source
}

func New(cat *content.Catalog, filter *catalog.Filter, store *progress.Store) *Controller {
	return &Controller{
		content:  cat,
		filter:   filter,
		progress: store,
		session:  quiz.NewSession(),
		subject:  models.AllSubjects,
		results:  filter.Filter(models.AllSubjects, ""),
		source:   catalog.SourceLocal,
	}
}

func (c *Controller) State() State { return c.state }

// Topic returns the open topic outside the Catalog state.
func (c *Controller) Topic() (models.Topic, bool) {
	if c.state == Catalog {
		return models.Topic{}, false
	}
	return c.topic, true
}

func (c *Controller) SectionIndex() int { return c.section }

// Session exposes the quiz attempt for read-only inspection.
func (c *Controller) Session() *quiz.Session { return c.session }

// Filter returns the current catalog subject and query.
func (c *Controller) Filter() (subject, query string) {
	return c.subject, c.query
}

func (c *Controller) require(op string, states ...State) error {
	for _, s := range states {
		if c.state == s {
			return nil
		}
	}
	return errors.NewInvalidStateError(op, c.state.String())
}

// OpenTopic shows the first section of a topic.
func (c *Controller) OpenTopic(id string) error {
	if err := c.require("open_topic", Catalog); err != nil {
		return err
	}
	topic, ok := c.content.TopicByID(id)
	if !ok {
		return errors.NewNotFoundError("topic", id)
	}
	c.topic = topic
	c.section = 0
	c.state = TopicDetail
	return nil
}

// NextSection moves forward one section, stopping at the last.
func (c *Controller) NextSection() error {
	if err := c.require("next_section", TopicDetail); err != nil {
		return err
	}
	if c.section < len(c.topic.Sections)-1 {
		c.section++
	}
	return nil
}

// PreviousSection moves back one section, stopping at the first.
func (c *Controller) PreviousSection() error {
	if err := c.require("previous_section", TopicDetail); err != nil {
		return err
	}
	if c.section > 0 {
		c.section--
	}
	return nil
}

// SelectSection jumps directly to section i.
func (c *Controller) SelectSection(i int) error {
	if err := c.require("select_section", TopicDetail); err != nil {
		return err
	}
	if i < 0 || i >= len(c.topic.Sections) {
		return errors.NewValidationError("section", "out of range")
	}
	c.section = i
	return nil
}

// CanStartQuiz reports whether the reader has reached the end of the topic.
func (c *Controller) CanStartQuiz() bool {
	return c.state == TopicDetail && c.section >= len(c.topic.Sections)-1
}

// StartQuiz begins an attempt once the last section has been reached.
// A topic without questions yields EmptyQuiz and stays in TopicDetail.
func (c *Controller) StartQuiz() error {
	if err := c.require("start_quiz", TopicDetail); err != nil {
		return err
	}
	if !c.CanStartQuiz() {
		return errors.NewInvalidStateError("start_quiz", "topic_detail(not at last section)")
	}
	if err := c.session.Start(c.topic); err != nil {
		return err
	}
	c.state = QuizActive
	return nil
}

// SubmitAnswer records the learner's choice for the current question. A
// correct answer bumps the lifetime counter; a failed save is only logged.
func (c *Controller) SubmitAnswer(ctx context.Context, option int) (models.AnswerRecord, error) {
	if err := c.require("submit_answer", QuizActive); err != nil {
		return models.AnswerRecord{}, err
	}
	rec, err := c.session.Submit(option)
	if err != nil {
		return models.AnswerRecord{}, err
	}
	if rec.Correct {
		if err := c.progress.RecordCorrectAnswer(ctx); err != nil {
			logger.FromContext(ctx).Warn("correct answer not persisted: %v", err)
		}
	}
	return rec, nil
}

// Advance moves to the next question. After the last one the attempt is
// scored, the topic's completion recorded and the controller enters QuizReview.
func (c *Controller) Advance(ctx context.Context) error {
	if err := c.require("advance", QuizActive); err != nil {
		return err
	}
	done, err := c.session.Advance()
	if err != nil || !done {
		return err
	}

	c.state = QuizReview
	result, _ := c.session.Result()
	log := logger.FromContext(ctx).WithFields(map[string]any{
		"topic":      result.TopicID,
		"attempt_id": result.AttemptID,
	})
	log.Info("quiz completed: %d/%d (%d%%)", result.Correct, result.Total, result.Score)
	if _, err := c.progress.RecordCompletion(ctx, result.TopicID, result.Score); err != nil {
		log.Warn("completion not persisted: %v", err)
	}
	return nil
}

// RestartQuiz discards the current attempt and starts a fresh one.
func (c *Controller) RestartQuiz() error {
	if err := c.require("restart_quiz", QuizActive, QuizReview); err != nil {
		return err
	}
	if err := c.session.Start(c.topic); err != nil {
		return err
	}
	c.state = QuizActive
	return nil
}

// Back returns to the catalog from any state, discarding any attempt.
// The catalog filter is kept.
func (c *Controller) Back() {
	c.session.Reset()
	c.topic = models.Topic{}
	c.section = 0
	c.state = Catalog
}

// SetFilter changes the catalog subject and query and runs the search once.
// An empty subject means all. A non-empty query goes through the remote
// searcher when one is configured.
func (c *Controller) SetFilter(ctx context.Context, subject, query string) error {
	if err := c.require("set_filter", Catalog); err != nil {
		return err
	}
	if subject == "" {
		subject = models.AllSubjects
	}
	if subject != models.AllSubjects && len(c.content.TopicsBySubject(subject)) == 0 {
		return errors.NewValidationError("subject", "unknown subject "+subject)
	}
	c.subject = subject
	c.query = query
	if query == "" {
		c.results, c.source = c.filter.Filter(subject, ""), catalog.SourceLocal
	} else {
		c.results, c.source = c.filter.Search(ctx, query, models.SearchFilter{Subject: subject})
	}
	return nil
}
