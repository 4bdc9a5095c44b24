package services

import (
	"sort"
	"time"

	"github.com/custodia-labs/chatlens/internal/core/domain"
	"github.com/custodia-labs/chatlens/internal/core/ports/driving"
	"github.com/custodia-labs/chatlens/internal/logger"
)

// Ensure AnalysisService implements the interface.
var _ driving.AnalysisService = (*AnalysisService)(nil)

// dateKey is the layout of dailyMessageCounts keys.
const dateKey = "2006-01-02"

// AnalysisService aggregates statistics over message sets.
type AnalysisService struct {
	opts domain.AnalysisOptions
	now  func() time.Time
}

// NewAnalysisService creates an analysis service with the given tuning.
// Zero option values fall back to the defaults.
func NewAnalysisService(opts domain.AnalysisOptions) *AnalysisService {
	defaults := domain.DefaultAnalysisOptions()
	if opts.TopWords <= 0 {
		opts.TopWords = defaults.TopWords
	}
	if opts.MinWordLength <= 0 {
		opts.MinWordLength = defaults.MinWordLength
	}
	if opts.TopEmoji <= 0 {
		opts.TopEmoji = defaults.TopEmoji
	}
	return &AnalysisService{opts: opts, now: time.Now}
}

// SetClock replaces the clock used when no message has a timestamp.
func (s *AnalysisService) SetClock(now func() time.Time) {
	s.now = now
}

// Analyze computes the aggregate view of messages.
func (s *AnalysisService) Analyze(messages []domain.Message) *domain.AnalysisResult {
	logger.Section("Analysis")
	res := Analyze(messages, s.opts, s.now)
	logger.Debug("Analysed %d messages from %d participants over %d days",
		res.TotalMessages, len(res.Participants), res.TotalDays)
	return res
}

// Analyze is the pure aggregation behind AnalysisService. now is only
// consulted when no message carries a timestamp.
func Analyze(messages []domain.Message, opts domain.AnalysisOptions, now func() time.Time) *domain.AnalysisResult {
	res := &domain.AnalysisResult{
		TotalMessages:         len(messages),
		Participants:          []string{},
		MessagesByParticipant: make(map[string]int),
		DailyMessageCounts:    make(map[string]int),
		HourlyDistribution:    make(map[int]int, 24),
		DayOfWeekDistribution: make(map[string]int, 7),
		TopWords:              []domain.WordCount{},
		Emoji:                 domain.EmojiStats{Top: []domain.EmojiCount{}},
	}
	for h := 0; h < 24; h++ {
		res.HourlyDistribution[h] = 0
	}

	words := newRanker()
	emoji := newRanker()
	vocabulary := make(map[string]struct{})

	var (
		start, end     time.Time
		sentimentSum   float64
		sentimentCount int
		textLength     int
		totalWords     int
	)

	for i := range messages {
		m := &messages[i]

		if _, seen := res.MessagesByParticipant[m.Sender]; !seen {
			res.Participants = append(res.Participants, m.Sender)
		}
		res.MessagesByParticipant[m.Sender]++

		if ts := m.Timestamp; !ts.IsZero() {
			res.DailyMessageCounts[ts.Format(dateKey)]++
			res.HourlyDistribution[ts.Hour()]++
			res.DayOfWeekDistribution[ts.Weekday().String()]++
			if start.IsZero() || ts.Before(start) {
				start = ts
			}
			if end.IsZero() || ts.After(end) {
				end = ts
			}
		}

		switch m.Type {
		case domain.MessageTypeMedia:
			res.MediaMessages++
			continue
		case domain.MessageTypeSystem:
			res.SystemMessages++
			continue
		}

		res.TextMessages++
		textLength += runeLen(m.Body)

		if m.Sentiment != nil {
			sentimentSum += m.Sentiment.Score
			sentimentCount++
			switch {
			case m.Sentiment.Score > 0:
				res.SentimentBreakdown.Positive++
			case m.Sentiment.Score < 0:
				res.SentimentBreakdown.Negative++
			default:
				res.SentimentBreakdown.Neutral++
			}
		}

		for _, w := range Words(m.Body) {
			totalWords++
			vocabulary[w] = struct{}{}
			if runeLen(w) > opts.MinWordLength {
				words.add(w)
			}
		}

		found := Emojis(m.Body)
		if len(found) > 0 {
			res.Emoji.MessagesWithEmoji++
		}
		for _, e := range found {
			res.Emoji.Total++
			emoji.add(e)
		}
	}

	for _, e := range words.top(opts.TopWords) {
		res.TopWords = append(res.TopWords, domain.WordCount{Word: e.key, Count: e.count})
	}
	for _, e := range emoji.top(opts.TopEmoji) {
		res.Emoji.Top = append(res.Emoji.Top, domain.EmojiCount{Emoji: e.key, Count: e.count})
	}

	if sentimentCount > 0 {
		res.AverageSentiment = sentimentSum / float64(sentimentCount)
	}
	if res.TextMessages > 0 {
		res.AverageMessageLength = float64(textLength) / float64(res.TextMessages)
		res.Words.AveragePerMessage = float64(totalWords) / float64(res.TextMessages)
	}
	res.Words.Total = totalWords
	res.Words.Unique = len(vocabulary)

	if start.IsZero() {
		t := now()
		res.DateRange = domain.DateRange{Start: t, End: t}
	} else {
		res.DateRange = domain.DateRange{Start: start, End: end}
		res.TotalDays = daysBetween(start, end) + 1
		res.MessagesPerDay = float64(res.TotalMessages) / float64(res.TotalDays)
	}

	return res
}

// secondsPerDay is exact for UTC midnights, which carry no leap seconds.
const secondsPerDay = 24 * 60 * 60

// daysBetween counts calendar days from a to b, ignoring time of day.
// It works on Unix seconds since time.Duration saturates past ~292 years.
func daysBetween(a, b time.Time) int {
	da := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC).Unix()
	db := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC).Unix()
	return int((db - da) / secondsPerDay)
}

func sortEntries(entries []rankEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].count > entries[j].count
	})
}
