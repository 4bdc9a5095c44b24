package domain

import (
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// RawFile is an uploaded or local file before normalisation.
type RawFile struct {
	// Name is the file name, used for display and extension detection.
	Name string

	// Extension is the lowercased extension including the dot, e.g. ".txt".
	Extension string

	// MIMEType is the declared content type, if known.
	MIMEType string

	// Content is the raw bytes.
	Content []byte
}

// NewRawFile wraps file content, deriving the extension from name.
func NewRawFile(name, mimeType string, content []byte) *RawFile {
	return &RawFile{
		Name:      filepath.Base(name),
		Extension: strings.ToLower(filepath.Ext(name)),
		MIMEType:  mimeType,
		Content:   content,
	}
}

// Transcript is an imported chat export.
type Transcript struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Format     string         `json:"format"`
	ImportedAt time.Time      `json:"importedAt"`
	Messages   []Message      `json:"messages"`
	Anomalies  []ParseAnomaly `json:"anomalies,omitempty"`
}

// Summary returns the listing view of the transcript.
func (t *Transcript) Summary() TranscriptSummary {
	s := TranscriptSummary{
		ID:           t.ID,
		Name:         t.Name,
		Format:       t.Format,
		ImportedAt:   t.ImportedAt,
		MessageCount: len(t.Messages),
		AnomalyCount: len(t.Anomalies),
	}
	seen := make(map[string]struct{})
	for i := range t.Messages {
		seen[t.Messages[i].Sender] = struct{}{}
		ts := t.Messages[i].Timestamp
		if ts.IsZero() {
			continue
		}
		if s.FirstMessage.IsZero() || ts.Before(s.FirstMessage) {
			s.FirstMessage = ts
		}
		if ts.After(s.LastMessage) {
			s.LastMessage = ts
		}
	}
	s.ParticipantCount = len(seen)
	return s
}

// TranscriptSummary describes a stored transcript without its messages.
type TranscriptSummary struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Format           string    `json:"format"`
	ImportedAt       time.Time `json:"importedAt"`
	MessageCount     int       `json:"messageCount"`
	AnomalyCount     int       `json:"anomalyCount"`
	ParticipantCount int       `json:"participantCount"`
	FirstMessage     time.Time `json:"firstMessage"`
	LastMessage      time.Time `json:"lastMessage"`
}

// SourceAnomaly is a parse anomaly tagged with the transcript it came from.
type SourceAnomaly struct {
	Source string `json:"source"`
	ParseAnomaly
}

// Combined is several transcripts treated as one message set.
type Combined struct {
	// Sources holds one summary per transcript, in argument order.
	Sources []TranscriptSummary

	// Messages concatenates every transcript's messages in argument order.
	// Messages are not re-sorted by timestamp.
	Messages []Message

	// Anomalies concatenates every transcript's anomalies in argument order.
	Anomalies []SourceAnomaly
}

// Combine concatenates transcripts into a single message set.
func Combine(transcripts ...*Transcript) *Combined {
	c := &Combined{
		Sources:   make([]TranscriptSummary, 0, len(transcripts)),
		Anomalies: []SourceAnomaly{},
	}
	total := 0
	for _, t := range transcripts {
		total += len(t.Messages)
	}
	c.Messages = make([]Message, 0, total)

	for _, t := range transcripts {
		c.Sources = append(c.Sources, t.Summary())
		c.Messages = append(c.Messages, t.Messages...)
		for _, a := range t.Anomalies {
			c.Anomalies = append(c.Anomalies, SourceAnomaly{Source: t.Name, ParseAnomaly: a})
		}
	}
	return c
}

// Name describes the combined set: the transcript name when there is only
// one, otherwise a count.
func (c *Combined) Name() string {
	if len(c.Sources) == 1 {
		return c.Sources[0].Name
	}
	return strconv.Itoa(len(c.Sources)) + " transcripts"
}
