package domain

import "time"

// MessageType classifies a finalised message.
type MessageType string

// Available message types.
const (
	// MessageTypeText is an ordinary user-authored message.
	MessageTypeText MessageType = "text"

	// MessageTypeMedia is a placeholder for an attachment left out of the export.
	MessageTypeMedia MessageType = "media"

	// MessageTypeSystem is a group event such as a member being added.
	MessageTypeSystem MessageType = "system"
)

// IsValid returns true if the message type is recognised.
func (t MessageType) IsValid() bool {
	switch t {
	case MessageTypeText, MessageTypeMedia, MessageTypeSystem:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (t MessageType) String() string {
	return string(t)
}

// Sentiment is a lexicon score for a single message body.
type Sentiment struct {
	// Score is the signed sum of token valences.
	Score float64 `json:"score"`

	// Comparative is Score divided by the number of tokens.
	Comparative float64 `json:"comparative"`

	// Tokens are the tokens the scorer considered.
	Tokens []string `json:"tokens,omitempty"`

	// Positive lists tokens that contributed a positive valence.
	Positive []string `json:"positive,omitempty"`

	// Negative lists tokens that contributed a negative valence.
	Negative []string `json:"negative,omitempty"`
}

// Message is one normalised chat message.
// Messages are kept in file order and are not modified once finalised.
type Message struct {
	// ID is assigned when the message is imported into a transcript.
	ID string `json:"id,omitempty"`

	// Timestamp is the wall-clock time from the header. No zone conversion is applied.
	Timestamp time.Time `json:"timestamp"`

	// Sender is the display name from the header.
	Sender string `json:"sender"`

	// Body is the message text; continuation lines are joined with "\n".
	Body string `json:"body"`

	// Type is the classification of the body.
	Type MessageType `json:"type"`

	// Sentiment is only set for text messages.
	Sentiment *Sentiment `json:"sentiment,omitempty"`

	// Line is the 1-based source line of the header, 0 for structured imports.
	Line int `json:"line,omitempty"`
}

// IsText returns true for ordinary text messages.
func (m Message) IsText() bool {
	return m.Type == MessageTypeText
}

// RawLine is one physical line of transcript input.
type RawLine struct {
	// Content is the line with line terminators removed.
	Content string

	// Number is the 1-based line number.
	Number int
}

// AnomalyKind identifies why a line was flagged during parsing.
type AnomalyKind string

// Known anomaly kinds.
const (
	// AnomalyInvalidTimestamp marks a header whose date or time is out of range.
	// No message is created for it.
	AnomalyInvalidTimestamp AnomalyKind = "invalid_timestamp"

	// AnomalyEmptyBody marks a header with nothing after the sender.
	// The message is still created.
	AnomalyEmptyBody AnomalyKind = "empty_body"

	// AnomalyLineTooLong marks a physical line above the parser's line limit.
	// The line is dropped and parsing continues with the next one.
	AnomalyLineTooLong AnomalyKind = "line_too_long"
)

// ParseAnomaly records a recoverable problem found while parsing.
type ParseAnomaly struct {
	Line    int         `json:"line"`
	Content string      `json:"content"`
	Kind    AnomalyKind `json:"kind"`
	Reason  string      `json:"reason"`
}

// ParseResult is the output of parsing one transcript.
type ParseResult struct {
	// Messages are the finalised messages in file order.
	Messages []Message

	// Anomalies are recoverable problems, in file order.
	Anomalies []ParseAnomaly

	// LinesRead is the number of physical lines consumed.
	LinesRead int

	// DiscardedLines counts non-blank lines that belonged to no message.
	DiscardedLines int
}
