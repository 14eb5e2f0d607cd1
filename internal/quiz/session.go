// Package quiz implements the per-attempt quiz state machine:
// NotStarted -> InProgress(i) -> Completed.
package quiz

import (
	"math"

	"github.com/google/uuid"

	"github.com/vytor/studystream/internal/errors"
	"github.com/vytor/studystream/internal/models"
)

// CelebrationThreshold is the score at which a completed attempt is celebrated.
const CelebrationThreshold = 70

type State int

const (
	NotStarted State = iota
	InProgress
	Completed
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not_started"
	case InProgress:
		return "in_progress"
	case Completed:
		return "completed"
	default:
		return "unknown"
	}
}

// Result is the outcome of a completed attempt.
type Result struct {
	AttemptID string `json:"attempt_id"`
	TopicID   string `json:"topic_id"`
	Correct   int    `json:"correct"`
	Total     int    `json:"total"`
	Score     int    `json:"score"`
	Celebrate bool   `json:"celebrate"`
}

// Session holds one quiz attempt. It is not safe for concurrent use.
type Session struct {
	id      string
	topic   models.Topic
	state   State
	index   int
	answers []models.AnswerRecord
	correct int
	score   int
}

func NewSession() *Session {
	return &Session{}
}

// Start begins a new attempt on topic, discarding any previous one.
func (s *Session) Start(topic models.Topic) error {
	if len(topic.PracticeQuestions) == 0 {
		return errors.NewEmptyQuizError(topic.ID)
	}
	s.Reset()
	s.id = uuid.NewString()
	s.topic = topic
	s.state = InProgress
	return nil
}

// Submit records the answer for the current question. It never advances.
func (s *Session) Submit(option int) (models.AnswerRecord, error) {
	if s.state != InProgress {
		return models.AnswerRecord{}, errors.NewInvalidStateError("submit", s.state.String())
	}
	q := s.topic.PracticeQuestions[s.index]
	if option < 0 || option >= len(q.Options) {
		return models.AnswerRecord{}, errors.NewInvalidAnswerIndexError(option, len(q.Options))
	}
	if s.answeredCurrent() {
		return models.AnswerRecord{}, errors.NewAlreadyAnsweredError(s.index)
	}

	rec := models.AnswerRecord{
		QuestionIndex:  s.index,
		SelectedOption: option,
		Correct:        q.IsCorrect(option),
	}
	s.answers = append(s.answers, rec)
	if rec.Correct {
		s.correct++
	}
	return rec, nil
}

// Advance moves to the next question, or completes the attempt after the last
// one. It reports whether the attempt is now complete. If the current question
// is unanswered nothing changes.
func (s *Session) Advance() (bool, error) {
	if s.state != InProgress {
		return false, errors.NewInvalidStateError("advance", s.state.String())
	}
	if !s.answeredCurrent() {
		return false, errors.NewNotAnsweredError(s.index)
	}

	if s.index+1 < len(s.topic.PracticeQuestions) {
		s.index++
		return false, nil
	}

	s.index = len(s.topic.PracticeQuestions)
	s.score = Score(s.correct, len(s.topic.PracticeQuestions))
	s.state = Completed
	return true, nil
}

// Reset returns the session to NotStarted from any state.
func (s *Session) Reset() {
	*s = Session{}
}

// Result returns the outcome once the attempt is Completed.
func (s *Session) Result() (Result, bool) {
	if s.state != Completed {
		return Result{}, false
	}
	return Result{
		AttemptID: s.id,
		TopicID:   s.topic.ID,
		Correct:   s.correct,
		Total:     len(s.topic.PracticeQuestions),
		Score:     s.score,
		Celebrate: s.score >= CelebrationThreshold,
	}, true
}

func (s *Session) answeredCurrent() bool {
	return len(s.answers) > s.index
}

func (s *Session) ID() string          { return s.id }
func (s *Session) State() State        { return s.state }
func (s *Session) Topic() models.Topic { return s.topic }
func (s *Session) QuestionIndex() int  { return s.index }
func (s *Session) CorrectCount() int   { return s.correct }
func (s *Session) TotalQuestions() int { return len(s.topic.PracticeQuestions) }

// HasAnsweredCurrent reports whether the current question has a record.
func (s *Session) HasAnsweredCurrent() bool {
	return s.state == InProgress && s.answeredCurrent()
}

// CurrentQuestion returns the question at the current index while InProgress.
func (s *Session) CurrentQuestion() (models.PracticeQuestion, bool) {
	if s.state != InProgress {
		return models.PracticeQuestion{}, false
	}
	return s.topic.PracticeQuestions[s.index], true
}

// CurrentAnswer returns the record for the current question, if any.
func (s *Session) CurrentAnswer() (models.AnswerRecord, bool) {
	if !s.HasAnsweredCurrent() {
		return models.AnswerRecord{}, false
	}
	return s.answers[s.index], true
}

// Answers returns a copy of the answer log.
func (s *Session) Answers() []models.AnswerRecord {
	out := make([]models.AnswerRecord, len(s.answers))
	copy(out, s.answers)
	return out
}

// Score is round(100 * correct / total), with round-half-away-from-zero.
func Score(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(correct) / float64(total)))
}
