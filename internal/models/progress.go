package models

// AnswerRecord is one submission within a quiz attempt.
type AnswerRecord struct {
	QuestionIndex  int  `json:"question_index"`
	SelectedOption int  `json:"selected_option"`
	Correct        bool `json:"correct"`
}

// ProgressRecord is the best completion percentage seen for a topic.
type ProgressRecord struct {
	TopicID    string `json:"topic_id"`
	Percentage int    `json:"percentage"`
}

// ProgressSnapshot is a point-in-time copy of the learner's persisted progress.
type ProgressSnapshot struct {
	Records             map[string]int `json:"records"`
	TotalCorrectAnswers int            `json:"total_correct_answers"`
	StreakDays          int            `json:"streak_days"`
}

// Stats is the dashboard projection of a snapshot.
type Stats struct {
	CompletedTopics     int `json:"completed_topics"`
	TotalTopics         int `json:"total_topics"`
	StreakDays          int `json:"streak_days"`
	TotalCorrectAnswers int `json:"total_correct_answers"`
	XP                  int `json:"xp"`
}

// Achievement is a derived badge. It is never persisted.
type Achievement struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Icon     string `json:"icon"`
	Color    string `json:"color"`
	Unlocked bool   `json:"unlocked"`
}
