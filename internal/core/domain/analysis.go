package domain

import "time"

// WordCount is a single entry in a frequency ranking.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// EmojiCount is a single entry in the emoji ranking.
type EmojiCount struct {
	Emoji string `json:"emoji"`
	Count int    `json:"count"`
}

// DateRange is the span of message timestamps.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// WordStats summarises vocabulary over text messages.
type WordStats struct {
	Total             int     `json:"total"`
	Unique            int     `json:"unique"`
	AveragePerMessage float64 `json:"averagePerMessage"`
}

// EmojiStats summarises emoji usage over text messages.
type EmojiStats struct {
	Total             int          `json:"total"`
	MessagesWithEmoji int          `json:"messagesWithEmoji"`
	Top               []EmojiCount `json:"top"`
}

// SentimentBreakdown counts scored messages by polarity.
type SentimentBreakdown struct {
	Positive int `json:"positive"`
	Negative int `json:"negative"`
	Neutral  int `json:"neutral"`
}

// AnalysisResult is the aggregate view of a message set.
// It is recomputed wholesale from the messages and never updated incrementally.
type AnalysisResult struct {
	TotalMessages         int                `json:"totalMessages"`
	Participants          []string           `json:"participants"`
	MessagesByParticipant map[string]int     `json:"messagesByParticipant"`
	DailyMessageCounts    map[string]int     `json:"dailyMessageCounts"`
	HourlyDistribution    map[int]int        `json:"hourlyDistribution"`
	DayOfWeekDistribution map[string]int     `json:"dayOfWeekDistribution"`
	TopWords              []WordCount        `json:"topWords"`
	MediaMessages         int                `json:"mediaMessages"`
	TextMessages          int                `json:"textMessages"`
	SystemMessages        int                `json:"systemMessages"`
	AverageSentiment      float64            `json:"averageSentiment"`
	SentimentBreakdown    SentimentBreakdown `json:"sentimentBreakdown"`
	AverageMessageLength  float64            `json:"averageMessageLength"`
	DateRange             DateRange          `json:"dateRange"`
	TotalDays             int                `json:"totalDays"`
	MessagesPerDay        float64            `json:"messagesPerDay"`
	Words                 WordStats          `json:"words"`
	Emoji                 EmojiStats         `json:"emoji"`
}

// AnalysisOptions tunes the aggregator.
type AnalysisOptions struct {
	// TopWords is the size of the word ranking.
	TopWords int

	// MinWordLength excludes words whose rune length is at most this value.
	MinWordLength int

	// TopEmoji is the size of the emoji ranking.
	TopEmoji int
}

// DefaultAnalysisOptions returns the standard aggregator tuning.
func DefaultAnalysisOptions() AnalysisOptions {
	return AnalysisOptions{
		TopWords:      20,
		MinWordLength: 3,
		TopEmoji:      10,
	}
}
