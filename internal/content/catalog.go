package content

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/vytor/studystream/internal/models"
)

const (
	DefaultRelatedLimit = 3
	DefaultNextLimit    = 2
)

// Catalog is the immutable, ordered set of topics. All lookups are pure and
// safe for concurrent use because nothing mutates the catalog after NewCatalog.
type Catalog struct {
	topics   []models.Topic
	byID     map[string]int
	subjects []string
}

// NewCatalog validates topics and builds the lookup indexes.
func NewCatalog(topics []models.Topic) (*Catalog, error) {
	c := &Catalog{
		topics: make([]models.Topic, len(topics)),
		byID:   make(map[string]int, len(topics)),
	}
	copy(c.topics, topics)

	seenSubject := make(map[string]bool)
	for i, t := range c.topics {
		if err := validateTopic(t); err != nil {
			return nil, err
		}
		if _, dup := c.byID[t.ID]; dup {
			return nil, fmt.Errorf("duplicate topic id %q", t.ID)
		}
		c.byID[t.ID] = i
		if !seenSubject[t.Subject] {
			seenSubject[t.Subject] = true
			c.subjects = append(c.subjects, t.Subject)
		}
	}
	return c, nil
}

func validateTopic(t models.Topic) error {
	if t.ID == "" {
		return fmt.Errorf("topic %q: empty id", t.Title)
	}
	if !t.Difficulty.Valid() {
		return fmt.Errorf("topic %s: invalid difficulty", t.ID)
	}
	for i, q := range t.PracticeQuestions {
		if len(q.Options) < 2 {
			return fmt.Errorf("topic %s question %d: needs at least 2 options, has %d", t.ID, i, len(q.Options))
		}
		if q.CorrectOption < 0 || q.CorrectOption >= len(q.Options) {
			return fmt.Errorf("topic %s question %d: correct option %d out of range", t.ID, i, q.CorrectOption)
		}
		if !q.Difficulty.Valid() {
			return fmt.Errorf("topic %s question %d: invalid difficulty", t.ID, i)
		}
	}
	return nil
}

// Len returns the number of topics.
func (c *Catalog) Len() int {
	return len(c.topics)
}

// Topics returns every topic in dataset order.
func (c *Catalog) Topics() []models.Topic {
	out := make([]models.Topic, len(c.topics))
	copy(out, c.topics)
	return out
}

// TopicsBySubject returns topics with the given subject, or all topics for "all".
func (c *Catalog) TopicsBySubject(subject string) []models.Topic {
	if subject == "" || subject == models.AllSubjects {
		return c.Topics()
	}
	var out []models.Topic
	for _, t := range c.topics {
		if t.Subject == subject {
			out = append(out, t)
		}
	}
	return out
}

// TopicByID looks up a topic. A missing id is reported by the bool, not an error.
func (c *Catalog) TopicByID(id string) (models.Topic, bool) {
	i, ok := c.byID[id]
	if !ok {
		return models.Topic{}, false
	}
	return c.topics[i], true
}

// AllSubjects returns distinct subjects in order of first appearance.
func (c *Catalog) AllSubjects() []string {
	out := make([]string, len(c.subjects))
	copy(out, c.subjects)
	return out
}

// QuestionsByDifficulty flattens every question of the given level across topics.
func (c *Catalog) QuestionsByDifficulty(level models.Difficulty) []models.PracticeQuestion {
	var out []models.PracticeQuestion
	for _, t := range c.topics {
		for _, q := range t.PracticeQuestions {
			if q.Difficulty == level {
				out = append(out, q)
			}
		}
	}
	return out
}

// Search matches query against title, description, subject and section key
// terms, case-insensitively. An empty query returns every topic.
func (c *Catalog) Search(query string) []models.Topic {
	q := Lower(strings.TrimSpace(query))
	if q == "" {
		return c.Topics()
	}
	var out []models.Topic
	for _, t := range c.topics {
		if topicMatches(t, q) {
			out = append(out, t)
		}
	}
	return out
}

func topicMatches(t models.Topic, lowerQuery string) bool {
	if strings.Contains(Lower(t.Title), lowerQuery) ||
		strings.Contains(Lower(t.Description), lowerQuery) ||
		strings.Contains(Lower(t.Subject), lowerQuery) {
		return true
	}
	for _, term := range t.KeyTerms() {
		if strings.Contains(Lower(term), lowerQuery) {
			return true
		}
	}
	return false
}

// RelatedTopics returns up to limit other topics sharing the subject of id.
// An unknown or empty id yields the first limit topics.
func (c *Catalog) RelatedTopics(id string, limit int) []models.Topic {
	if limit <= 0 {
		limit = DefaultRelatedLimit
	}
	current, ok := c.TopicByID(id)
	if !ok {
		return c.firstN(limit)
	}
	var out []models.Topic
	for _, t := range c.topics {
		if len(out) == limit {
			break
		}
		if t.ID != current.ID && t.Subject == current.Subject {
			out = append(out, t)
		}
	}
	return out
}

// NextTopics returns up to limit topics that list the current topic's title as
// a prerequisite.
func (c *Catalog) NextTopics(id string, limit int) []models.Topic {
	if limit <= 0 {
		limit = DefaultNextLimit
	}
	current, ok := c.TopicByID(id)
	if !ok {
		return nil
	}
	title := Lower(current.Title)
	var out []models.Topic
	for _, t := range c.topics {
		if len(out) == limit {
			break
		}
		if t.ID == current.ID {
			continue
		}
		for _, p := range t.Prerequisites {
			if strings.Contains(title, Lower(p)) {
				out = append(out, t)
				break
			}
		}
	}
	return out
}

func (c *Catalog) firstN(n int) []models.Topic {
	if n > len(c.topics) {
		n = len(c.topics)
	}
	out := make([]models.Topic, n)
	copy(out, c.topics[:n])
	return out
}

// Lower returns s lowercased for case-insensitive substring matching.
func Lower(s string) string {
	return cases.Lower(language.Und).String(s)
}
