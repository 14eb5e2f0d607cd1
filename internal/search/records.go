package search

import (
	"fmt"

	"github.com/vytor/studystream/internal/content"
	"github.com/vytor/studystream/internal/models"
)

// TopicRecord is the document stored in the topics index.
type TopicRecord struct {
	ObjectID         string   `json:"objectID"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Icon             string   `json:"icon,omitempty"`
	Color            string   `json:"color,omitempty"`
	Subject          string   `json:"subject"`
	Duration         string   `json:"duration,omitempty"`
	Difficulty       string   `json:"difficulty"`
	DifficultyRank   int      `json:"difficultyRank"`
	SectionCount     int      `json:"sectionCount"`
	QuestionCount    int      `json:"questionCount"`
	Prerequisites    []string `json:"prerequisites,omitempty"`
	LearningOutcomes []string `json:"learningOutcomes,omitempty"`
	KeyTerms         []string `json:"keyTerms,omitempty"`
}

// QuestionRecord is the document stored in the questions index.
type QuestionRecord struct {
	ObjectID      string   `json:"objectID"`
	TopicID       string   `json:"topicId"`
	TopicTitle    string   `json:"topicTitle"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
	Difficulty    string   `json:"difficulty"`
	Subject       string   `json:"subject"`
}

// QuestionObjectID is the stable id of the i-th question of a topic.
func QuestionObjectID(topicID string, index int) string {
	return fmt.Sprintf("%s_q%d", topicID, index)
}

func NewTopicRecord(t models.Topic) TopicRecord {
	return TopicRecord{
		ObjectID:         t.ID,
		Title:            t.Title,
		Description:      t.Description,
		Icon:             t.Icon,
		Color:            t.Color,
		Subject:          t.Subject,
		Duration:         t.Duration,
		Difficulty:       t.Difficulty.String(),
		DifficultyRank:   int(t.Difficulty),
		SectionCount:     len(t.Sections),
		QuestionCount:    len(t.PracticeQuestions),
		Prerequisites:    t.Prerequisites,
		LearningOutcomes: t.LearningOutcomes,
		KeyTerms:         t.KeyTerms(),
	}
}

// BuildTopicRecords maps every catalog topic to an index document.
func BuildTopicRecords(cat *content.Catalog) []TopicRecord {
	topics := cat.Topics()
	out := make([]TopicRecord, 0, len(topics))
	for _, t := range topics {
		out = append(out, NewTopicRecord(t))
	}
	return out
}

// BuildQuestionRecords flattens every practice question into index documents.
func BuildQuestionRecords(cat *content.Catalog) []QuestionRecord {
	var out []QuestionRecord
	for _, t := range cat.Topics() {
		for i, q := range t.PracticeQuestions {
			out = append(out, QuestionRecord{
				ObjectID:      QuestionObjectID(t.ID, i),
				TopicID:       t.ID,
				TopicTitle:    t.Title,
				Question:      q.Prompt,
				Options:       q.Options,
				CorrectAnswer: q.CorrectOption,
				Explanation:   q.Explanation,
				Difficulty:    q.Difficulty.String(),
				Subject:       t.Subject,
			})
		}
	}
	return out
}

func (r TopicRecord) summary() models.TopicSummary {
	d, _ := models.ParseDifficulty(r.Difficulty)
	return models.TopicSummary{
		ID:            r.ObjectID,
		Title:         r.Title,
		Description:   r.Description,
		Icon:          r.Icon,
		Color:         r.Color,
		Subject:       r.Subject,
		Duration:      r.Duration,
		Difficulty:    d,
		SectionCount:  r.SectionCount,
		QuestionCount: r.QuestionCount,
	}
}

func (r QuestionRecord) hit() models.QuestionHit {
	d, _ := models.ParseDifficulty(r.Difficulty)
	return models.QuestionHit{
		ID:            r.ObjectID,
		TopicID:       r.TopicID,
		TopicTitle:    r.TopicTitle,
		Prompt:        r.Question,
		Options:       r.Options,
		CorrectOption: r.CorrectAnswer,
		Explanation:   r.Explanation,
		Difficulty:    d,
		Subject:       r.Subject,
	}
}
