package cli

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/chatlens/internal/core/domain"
)

const (
	barWidth   = 24
	dateLayout = "2 Jan 2006 15:04"
	bodyLimit  = 120
)

// weekOrder lists weekdays in display order.
var weekOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

func outputJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

// analysisReport is the JSON shape of analyze output.
type analysisReport struct {
	Transcripts []domain.TranscriptSummary `json:"transcripts"`
	Anomalies   []domain.SourceAnomaly     `json:"anomalies"`
	Analysis    *domain.AnalysisResult     `json:"analysis"`
}

func newAnalysisReport(c *domain.Combined, res *domain.AnalysisResult) analysisReport {
	return analysisReport{Transcripts: c.Sources, Anomalies: c.Anomalies, Analysis: res}
}

func printAnalysis(cmd *cobra.Command, c *domain.Combined, res *domain.AnalysisResult) {
	st := newStyles(cmd.OutOrStdout(), nil)
	multi := len(c.Sources) > 1

	cmd.Println(st.Title.Render(c.Name()))
	if multi {
		cmd.Println(st.Muted.Render("combined in the order given"))
	} else if len(c.Sources) == 1 {
		cmd.Println(st.Muted.Render(fmt.Sprintf("%s export", c.Sources[0].Format)))
	}
	cmd.Println()

	if multi {
		printSources(cmd, st, c.Sources)
	}

	if res.TotalMessages == 0 {
		cmd.Println("No messages found.")
		printAnomalies(cmd, st, c.Anomalies, multi)
		return
	}

	row := func(label, value string) {
		cmd.Printf("  %s%s\n", st.Label.Render(label), value)
	}

	cmd.Println(st.Section.Render("Overview"))
	row("Messages", fmt.Sprintf("%d", res.TotalMessages))
	row("Participants", fmt.Sprintf("%d", len(res.Participants)))
	if !res.DateRange.Start.IsZero() {
		row("Period", fmt.Sprintf("%s - %s",
			res.DateRange.Start.Format(dateLayout), res.DateRange.End.Format(dateLayout)))
	}
	row("Days", fmt.Sprintf("%d", res.TotalDays))
	row("Messages per day", fmt.Sprintf("%.1f", res.MessagesPerDay))
	row("Text / media / system", fmt.Sprintf("%d / %d / %d",
		res.TextMessages, res.MediaMessages, res.SystemMessages))
	row("Average length", fmt.Sprintf("%.1f characters", res.AverageMessageLength))
	row("Words", fmt.Sprintf("%d total, %d unique, %.1f per message",
		res.Words.Total, res.Words.Unique, res.Words.AveragePerMessage))
	cmd.Println()

	cmd.Println(st.Section.Render("Participants"))
	senders := sortedParticipants(res)
	top := 0
	for _, p := range senders {
		top = max(top, res.MessagesByParticipant[p])
	}
	for _, p := range senders {
		n := res.MessagesByParticipant[p]
		cmd.Printf("  %s%5d %s\n", st.Label.Render(truncate(p, 20)), n, st.Bar.Render(bar(n, top)))
	}
	cmd.Println()

	cmd.Println(st.Section.Render("Activity by hour"))
	peak := 0
	for _, n := range res.HourlyDistribution {
		peak = max(peak, n)
	}
	for hour := range 24 {
		n := res.HourlyDistribution[hour]
		if n == 0 {
			continue
		}
		cmd.Printf("  %02d:00 %5d %s\n", hour, n, st.Bar.Render(bar(n, peak)))
	}
	cmd.Println()

	cmd.Println(st.Section.Render("Activity by weekday"))
	peak = 0
	for _, n := range res.DayOfWeekDistribution {
		peak = max(peak, n)
	}
	for _, day := range weekOrder {
		n := res.DayOfWeekDistribution[day.String()]
		cmd.Printf("  %-9s %5d %s\n", day.String(), n, st.Bar.Render(bar(n, peak)))
	}
	cmd.Println()

	if len(res.TopWords) > 0 {
		cmd.Println(st.Section.Render("Top words"))
		for i, w := range res.TopWords {
			cmd.Printf("  %2d. %-20s %d\n", i+1, w.Word, w.Count)
		}
		cmd.Println()
	}

	if res.Emoji.Total > 0 {
		cmd.Println(st.Section.Render("Emoji"))
		cmd.Printf("  %d emoji in %d messages\n", res.Emoji.Total, res.Emoji.MessagesWithEmoji)
		parts := make([]string, 0, len(res.Emoji.Top))
		for _, e := range res.Emoji.Top {
			parts = append(parts, fmt.Sprintf("%s %d", e.Emoji, e.Count))
		}
		cmd.Printf("  %s\n", strings.Join(parts, "  "))
		cmd.Println()
	}

	cmd.Println(st.Section.Render("Sentiment"))
	cmd.Printf("  Average %s\n", sentimentStyle(st, res.AverageSentiment).Render(fmt.Sprintf("%+.3f", res.AverageSentiment)))
	cmd.Printf("  %s positive, %s negative, %d neutral\n",
		st.Positive.Render(fmt.Sprintf("%d", res.SentimentBreakdown.Positive)),
		st.Negative.Render(fmt.Sprintf("%d", res.SentimentBreakdown.Negative)),
		res.SentimentBreakdown.Neutral)

	printAnomalies(cmd, st, c.Anomalies, multi)
}

// printSources prints the per-file breakdown of a combined analysis.
func printSources(cmd *cobra.Command, st *Styles, sources []domain.TranscriptSummary) {
	cmd.Println(st.Section.Render("Files"))
	for i := range sources {
		s := sources[i]
		cmd.Printf("  %d. %s\n", i+1, s.Name)
		cmd.Printf("      %d messages, %d participants\n", s.MessageCount, s.ParticipantCount)
		if !s.FirstMessage.IsZero() {
			cmd.Printf("      %s - %s\n", s.FirstMessage.Format(dateLayout), s.LastMessage.Format(dateLayout))
		}
	}
	cmd.Println()
}

// printAnomalies lists skipped lines, prefixed with their file when the
// messages come from more than one.
func printAnomalies(cmd *cobra.Command, st *Styles, anomalies []domain.SourceAnomaly, tagged bool) {
	if len(anomalies) == 0 {
		return
	}
	cmd.Println()
	cmd.Println(st.Warning.Render(fmt.Sprintf("%d %s skipped:", len(anomalies), plural(len(anomalies), "line"))))
	for _, a := range anomalies {
		where := fmt.Sprintf("line %d", a.Line)
		if tagged {
			where = a.Source + " " + where
		}
		cmd.Printf("  %s: %s (%s)\n", where, a.Reason, a.Kind)
	}
}

func printSearchResult(cmd *cobra.Command, res *domain.SearchResult) {
	st := newStyles(cmd.OutOrStdout(), nil)

	if res.FallbackFrom != "" {
		cmd.Println(st.Warning.Render(fmt.Sprintf("%s search unavailable, used %s search instead.",
			res.FallbackFrom, res.Mode)))
	}
	for _, w := range res.Warnings {
		cmd.Println(st.Muted.Render("note: " + w))
	}

	cmd.Println(st.Title.Render(res.Summary))
	cmd.Println()

	if res.Analysis != "" {
		cmd.Println(res.Analysis)
		cmd.Println()
	}

	if res.Sentiment != nil {
		cmd.Printf("  %s positive, %s negative, %d neutral\n\n",
			st.Positive.Render(fmt.Sprintf("%d", res.Sentiment.Positive)),
			st.Negative.Render(fmt.Sprintf("%d", res.Sentiment.Negative)),
			res.Sentiment.Neutral)
	}

	if len(res.Mentions) > 0 {
		for i := range res.Mentions {
			m := res.Mentions[i]
			printMessage(cmd, st, i+1, m.Message)
			detail := fmt.Sprintf("score %d: %s", m.Score, strings.Join(m.Keywords, ", "))
			if len(m.Amounts) > 0 {
				detail += " | " + strings.Join(m.Amounts, ", ")
			}
			cmd.Printf("      %s\n", st.Muted.Render(detail))
		}
		return
	}

	if len(res.Messages) == 0 {
		if res.Analysis == "" {
			cmd.Println("No results found.")
		}
		return
	}
	for i := range res.Messages {
		printMessage(cmd, st, i+1, res.Messages[i])
	}
}

func printMessage(cmd *cobra.Command, st *Styles, n int, m domain.Message) {
	when := "-"
	if !m.Timestamp.IsZero() {
		when = m.Timestamp.Format(dateLayout)
	}
	body := truncate(strings.ReplaceAll(m.Body, "\n", " "), bodyLimit)
	cmd.Printf("  [%d] %s %s: %s\n", n, st.Muted.Render(when), m.Sender, body)
	if m.Sentiment != nil && m.Sentiment.Score != 0 {
		cmd.Printf("      %s\n", sentimentStyle(st, m.Sentiment.Comparative).
			Render(fmt.Sprintf("sentiment %+g", m.Sentiment.Score)))
	}
}

func printTranscripts(cmd *cobra.Command, list []domain.TranscriptSummary) {
	if len(list) == 0 {
		cmd.Println("No transcripts imported.")
		cmd.Println("Run 'chatlens import <file>' to add one.")
		return
	}

	st := newStyles(cmd.OutOrStdout(), nil)
	cmd.Println(st.Title.Render("Transcripts"))
	cmd.Println()
	for i := range list {
		t := list[i]
		cmd.Printf("  %s  %s\n", st.Section.Render(t.ID), t.Name)
		cmd.Printf("      %d messages, %d participants, %s\n", t.MessageCount, t.ParticipantCount, t.Format)
		if !t.FirstMessage.IsZero() {
			cmd.Printf("      %s - %s\n", t.FirstMessage.Format(dateLayout), t.LastMessage.Format(dateLayout))
		}
		if t.AnomalyCount > 0 {
			cmd.Printf("      %s\n", st.Warning.Render(fmt.Sprintf("%d skipped lines", t.AnomalyCount)))
		}
		cmd.Printf("      %s\n", st.Muted.Render("imported "+t.ImportedAt.Local().Format(dateLayout)))
	}
}

func sortedParticipants(res *domain.AnalysisResult) []string {
	out := make([]string, len(res.Participants))
	copy(out, res.Participants)
	sort.SliceStable(out, func(i, j int) bool {
		return res.MessagesByParticipant[out[i]] > res.MessagesByParticipant[out[j]]
	})
	return out
}

func sentimentStyle(st *Styles, score float64) lipgloss.Style {
	switch {
	case score > 0:
		return st.Positive
	case score < 0:
		return st.Negative
	default:
		return st.Muted
	}
}

func bar(n, peak int) string {
	if peak <= 0 || n <= 0 {
		return ""
	}
	width := n * barWidth / peak
	if width == 0 {
		width = 1
	}
	return strings.Repeat("█", width)
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-1]) + "…"
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
