package mcp

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/chatlens/internal/core/domain"
)

// defaultFileName is used for inline content without a file name.
const defaultFileName = "chat.txt"

// timeLayout formats timestamps in tool output.
const timeLayout = time.RFC3339

// source selects the messages a tool works on: either inline export
// content or one or more stored transcripts.
type source struct {
	content       string
	fileName      string
	transcriptID  string
	transcriptIDs []string
}

// ids returns the stored transcripts to combine, transcript_id first.
func (src source) ids() []string {
	var ids []string
	for _, id := range append([]string{src.transcriptID}, src.transcriptIDs...) {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// AnalyzeInput is the input schema for the analyze_chat tool.
type AnalyzeInput struct {
	Content       string   `json:"content,omitempty" jsonschema:"raw WhatsApp export text; ignored when transcript IDs are set"`
	FileName      string   `json:"file_name,omitempty" jsonschema:"file name of the content, used to pick the format (default chat.txt)"`
	TranscriptID  string   `json:"transcript_id,omitempty" jsonschema:"ID of a previously imported transcript"`
	TranscriptIDs []string `json:"transcript_ids,omitempty" jsonschema:"IDs of imported transcripts analysed as one conversation, in order"`
}

// AnalyzeOutput is the output schema for the analyze_chat tool.
type AnalyzeOutput struct {
	TotalMessages         int                       `json:"total_messages"`
	Participants          []string                  `json:"participants"`
	MessagesByParticipant map[string]int            `json:"messages_by_participant"`
	DailyMessageCounts    map[string]int            `json:"daily_message_counts"`
	HourlyDistribution    map[string]int            `json:"hourly_distribution"`
	DayOfWeekDistribution map[string]int            `json:"day_of_week_distribution"`
	TopWords              []domain.WordCount        `json:"top_words"`
	MediaMessages         int                       `json:"media_messages"`
	TextMessages          int                       `json:"text_messages"`
	SystemMessages        int                       `json:"system_messages"`
	AverageSentiment      float64                   `json:"average_sentiment"`
	SentimentBreakdown    domain.SentimentBreakdown `json:"sentiment_breakdown"`
	AverageMessageLength  float64                   `json:"average_message_length"`
	Start                 string                    `json:"start,omitempty"`
	End                   string                    `json:"end,omitempty"`
	TotalDays             int                       `json:"total_days"`
	MessagesPerDay        float64                   `json:"messages_per_day"`
	Words                 domain.WordStats          `json:"words"`
	EmojiTotal            int                       `json:"emoji_total"`
	MessagesWithEmoji     int                       `json:"messages_with_emoji"`
	TopEmoji              []domain.EmojiCount       `json:"top_emoji"`
	Anomalies             int                       `json:"anomalies"`
	Sources               []TranscriptOutput        `json:"sources"`
}

// SearchInput is the input schema for the search_chat tool.
type SearchInput struct {
	Content       string   `json:"content,omitempty" jsonschema:"raw WhatsApp export text; ignored when transcript IDs are set"`
	FileName      string   `json:"file_name,omitempty" jsonschema:"file name of the content, used to pick the format (default chat.txt)"`
	TranscriptID  string   `json:"transcript_id,omitempty" jsonschema:"ID of a previously imported transcript"`
	TranscriptIDs []string `json:"transcript_ids,omitempty" jsonschema:"IDs of imported transcripts searched as one conversation, in order"`
	Query         string   `json:"query" jsonschema:"the search query"`
	Mode          string   `json:"mode,omitempty" jsonschema:"keyword, sentiment, financial or semantic (default from settings)"`
	Limit         int      `json:"limit,omitempty" jsonschema:"maximum number of messages to return"`
}

// SearchOutput is the output schema for the search_chat tool.
type SearchOutput struct {
	Mode         string                   `json:"mode"`
	FallbackFrom string                   `json:"fallback_from,omitempty"`
	Query        string                   `json:"query"`
	Summary      string                   `json:"summary"`
	Analysis     string                   `json:"analysis,omitempty"`
	TotalMatches int                      `json:"total_matches"`
	Count        int                      `json:"count"`
	Messages     []MessageOutput          `json:"messages"`
	Mentions     []MentionOutput          `json:"mentions,omitempty"`
	Sentiment    *domain.SentimentBuckets `json:"sentiment,omitempty"`
	Warnings     []string                 `json:"warnings,omitempty"`
}

// MessageOutput is a single message in tool output.
type MessageOutput struct {
	ID        string  `json:"id,omitempty"`
	Timestamp string  `json:"timestamp,omitempty"`
	Sender    string  `json:"sender"`
	Body      string  `json:"body"`
	Type      string  `json:"type"`
	Sentiment float64 `json:"sentiment,omitempty"`
}

// MentionOutput is a scored financial match.
type MentionOutput struct {
	Message  MessageOutput `json:"message"`
	Score    int           `json:"score"`
	Keywords []string      `json:"keywords"`
	Amounts  []string      `json:"amounts,omitempty"`
}

// ListInput is the input schema for the list_transcripts tool.
type ListInput struct{}

// ListOutput is the output schema for the list_transcripts tool.
type ListOutput struct {
	Transcripts []TranscriptOutput `json:"transcripts"`
	Count       int                `json:"count"`
}

// TranscriptOutput describes a stored transcript.
type TranscriptOutput struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Format       string `json:"format"`
	ImportedAt   string `json:"imported_at"`
	Messages     int    `json:"messages"`
	Participants int    `json:"participants"`
	Anomalies    int    `json:"anomalies"`
	FirstMessage string `json:"first_message,omitempty"`
	LastMessage  string `json:"last_message,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "analyze_chat",
		Description: "Compute participant, activity, vocabulary, emoji and sentiment statistics for a WhatsApp chat export",
	}, s.handleAnalyze)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_chat",
		Description: "Search a WhatsApp chat by keyword, sentiment, financial mentions or AI-assisted semantic analysis",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_transcripts",
		Description: "List imported chat transcripts",
	}, s.handleList)
}

// handleAnalyze handles the analyze_chat tool invocation.
func (s *Server) handleAnalyze(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AnalyzeInput,
) (*mcp.CallToolResult, AnalyzeOutput, error) {
	combined, err := s.loadMessages(ctx, source{input.Content, input.FileName, input.TranscriptID, input.TranscriptIDs})
	if err != nil {
		return nil, AnalyzeOutput{}, toolError("analyze_chat", err)
	}

	res := s.ports.Analysis.Analyze(combined.Messages)
	out := toAnalyzeOutput(res)
	out.Anomalies = len(combined.Anomalies)
	out.Sources = make([]TranscriptOutput, len(combined.Sources))
	for i := range combined.Sources {
		out.Sources[i] = toTranscriptOutput(combined.Sources[i])
	}
	return nil, out, nil
}

// handleSearch handles the search_chat tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	combined, err := s.loadMessages(ctx, source{input.Content, input.FileName, input.TranscriptID, input.TranscriptIDs})
	if err != nil {
		return nil, SearchOutput{}, toolError("search_chat", err)
	}

	mode := domain.SearchMode(strings.ToLower(strings.TrimSpace(input.Mode)))
	if mode == "" {
		mode = s.defaultMode()
	}

	res, err := s.ports.Search.Search(ctx, combined.Messages, input.Query, mode,
		domain.SearchOptions{Limit: input.Limit})
	if err != nil {
		return nil, SearchOutput{}, toolError("search_chat", err)
	}

	return nil, toSearchOutput(res), nil
}

// handleList handles the list_transcripts tool invocation.
func (s *Server) handleList(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListInput,
) (*mcp.CallToolResult, ListOutput, error) {
	summaries, err := s.ports.Transcript.List(ctx)
	if err != nil {
		return nil, ListOutput{}, toolError("list_transcripts", err)
	}

	out := ListOutput{
		Transcripts: make([]TranscriptOutput, len(summaries)),
		Count:       len(summaries),
	}
	for i := range summaries {
		out.Transcripts[i] = toTranscriptOutput(summaries[i])
	}
	return nil, out, nil
}

// loadMessages resolves the message source of a tool call. Stored
// transcripts are combined in the order their IDs were given.
func (s *Server) loadMessages(ctx context.Context, src source) (*domain.Combined, error) {
	if ids := src.ids(); len(ids) > 0 {
		transcripts := make([]*domain.Transcript, 0, len(ids))
		for _, id := range ids {
			t, err := s.ports.Transcript.Get(ctx, id)
			if err != nil {
				return nil, err
			}
			transcripts = append(transcripts, t)
		}
		return domain.Combine(transcripts...), nil
	}
	if strings.TrimSpace(src.content) == "" {
		return nil, fmt.Errorf("%w: provide content, transcript_id or transcript_ids", domain.ErrEmptyInput)
	}

	name := src.fileName
	if name == "" {
		name = defaultFileName
	}
	t, err := s.ports.Transcript.Parse(ctx, domain.NewRawFile(name, "", []byte(src.content)))
	if err != nil {
		return nil, err
	}
	return domain.Combine(t), nil
}

func (s *Server) defaultMode() domain.SearchMode {
	if s.ports.Settings != nil {
		if settings, err := s.ports.Settings.Get(); err == nil && settings.Search.DefaultMode.IsValid() {
			return settings.Search.DefaultMode
		}
	}
	return domain.SearchModeKeyword
}

func toAnalyzeOutput(res *domain.AnalysisResult) AnalyzeOutput {
	out := AnalyzeOutput{
		TotalMessages:         res.TotalMessages,
		Participants:          nonNil(res.Participants),
		MessagesByParticipant: res.MessagesByParticipant,
		DailyMessageCounts:    res.DailyMessageCounts,
		HourlyDistribution:    make(map[string]int, len(res.HourlyDistribution)),
		DayOfWeekDistribution: res.DayOfWeekDistribution,
		TopWords:              nonNil(res.TopWords),
		MediaMessages:         res.MediaMessages,
		TextMessages:          res.TextMessages,
		SystemMessages:        res.SystemMessages,
		AverageSentiment:      res.AverageSentiment,
		SentimentBreakdown:    res.SentimentBreakdown,
		AverageMessageLength:  res.AverageMessageLength,
		Start:                 formatTime(res.DateRange.Start),
		End:                   formatTime(res.DateRange.End),
		TotalDays:             res.TotalDays,
		MessagesPerDay:        res.MessagesPerDay,
		Words:                 res.Words,
		EmojiTotal:            res.Emoji.Total,
		MessagesWithEmoji:     res.Emoji.MessagesWithEmoji,
		TopEmoji:              nonNil(res.Emoji.Top),
	}
	for hour, n := range res.HourlyDistribution {
		out.HourlyDistribution[strconv.Itoa(hour)] = n
	}
	return out
}

func toSearchOutput(res *domain.SearchResult) SearchOutput {
	out := SearchOutput{
		Mode:         res.Mode.String(),
		FallbackFrom: res.FallbackFrom.String(),
		Query:        res.Query,
		Summary:      res.Summary,
		Analysis:     res.Analysis,
		TotalMatches: res.TotalMatches,
		Count:        len(res.Messages),
		Messages:     make([]MessageOutput, len(res.Messages)),
		Sentiment:    res.Sentiment,
		Warnings:     res.Warnings,
	}
	for i := range res.Messages {
		out.Messages[i] = toMessageOutput(res.Messages[i])
	}
	for i := range res.Mentions {
		m := res.Mentions[i]
		out.Mentions = append(out.Mentions, MentionOutput{
			Message:  toMessageOutput(m.Message),
			Score:    m.Score,
			Keywords: nonNil(m.Keywords),
			Amounts:  m.Amounts,
		})
	}
	return out
}

func toMessageOutput(m domain.Message) MessageOutput {
	out := MessageOutput{
		ID:        m.ID,
		Timestamp: formatTime(m.Timestamp),
		Sender:    m.Sender,
		Body:      m.Body,
		Type:      m.Type.String(),
	}
	if m.Sentiment != nil {
		out.Sentiment = m.Sentiment.Comparative
	}
	return out
}

func toTranscriptOutput(sum domain.TranscriptSummary) TranscriptOutput {
	return TranscriptOutput{
		ID:           sum.ID,
		Name:         sum.Name,
		Format:       sum.Format,
		ImportedAt:   formatTime(sum.ImportedAt),
		Messages:     sum.MessageCount,
		Participants: sum.ParticipantCount,
		Anomalies:    sum.AnomalyCount,
		FirstMessage: formatTime(sum.FirstMessage),
		LastMessage:  formatTime(sum.LastMessage),
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(timeLayout)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
