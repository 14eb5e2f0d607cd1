package progress

import (
	"sort"

	"github.com/vytor/studystream/internal/models"
)

// XPPerTopic is the experience awarded for each completed topic.
const XPPerTopic = 10

// Snapshot wraps the persisted snapshot with the derived projections.
type Snapshot struct {
	models.ProgressSnapshot
}

// CompletedCount counts records at or above threshold.
func (s Snapshot) CompletedCount(threshold int) int {
	n := 0
	for _, pct := range s.Records {
		if pct >= threshold {
			n++
		}
	}
	return n
}

// SortedRecords returns the progress records ordered by topic id.
func (s Snapshot) SortedRecords() []models.ProgressRecord {
	out := make([]models.ProgressRecord, 0, len(s.Records))
	for id, pct := range s.Records {
		out = append(out, models.ProgressRecord{TopicID: id, Percentage: pct})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TopicID < out[j].TopicID })
	return out
}

// Stats projects the snapshot onto the dashboard counters.
func (s Snapshot) Stats(totalTopics int) models.Stats {
	completed := s.CompletedCount(CompletionThreshold)
	return models.Stats{
		CompletedTopics:     completed,
		TotalTopics:         totalTopics,
		StreakDays:          s.StreakDays,
		TotalCorrectAnswers: s.TotalCorrectAnswers,
		XP:                  completed * XPPerTopic,
	}
}

type achievementRule struct {
	id, title, icon, color string
	unlocked               func(Snapshot) bool
}

var achievementRules = []achievementRule{
	{"first-steps", "First Steps", "🚀", "#667eea", func(s Snapshot) bool {
		return s.CompletedCount(CompletionThreshold) >= 1
	}},
	{"quick-learner", "Quick Learner", "⚡", "#f8b739", func(s Snapshot) bool {
		return s.TotalCorrectAnswers >= 10
	}},
	{"streak-master", "Streak Master", "🔥", "#fa709a", func(s Snapshot) bool {
		return s.StreakDays >= 3
	}},
	{"quiz-champion", "Quiz Champion", "🏆", "#43e97b", func(s Snapshot) bool {
		return s.TotalCorrectAnswers >= 25
	}},
}

// Achievements evaluates every badge against the snapshot, in display order.
func (s Snapshot) Achievements() []models.Achievement {
	out := make([]models.Achievement, 0, len(achievementRules))
	for _, r := range achievementRules {
		out = append(out, models.Achievement{
			ID:       r.id,
			Title:    r.title,
			Icon:     r.icon,
			Color:    r.color,
			Unlocked: r.unlocked(s),
		})
	}
	return out
}
