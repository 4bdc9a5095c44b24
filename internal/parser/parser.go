package parser

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/chatlens/internal/core/domain"
	"github.com/custodia-labs/chatlens/internal/logger"
)

const (
	// maxLineSize bounds a single physical line. Longer lines are dropped
	// with an anomaly.
	maxLineSize = 1 << 20

	// readBufferSize is the bufio.Reader window; lines longer than this
	// are assembled from several reads.
	readBufferSize = 64 * 1024

	// previewSize caps the content stored on a line_too_long anomaly.
	previewSize = 120

	// cancelCheckInterval is how many lines are read between context checks.
	cancelCheckInterval = 1024
)

// Parse reads a transcript and returns its messages in file order.
// Only read failures and cancellation are errors; malformed headers are
// reported as anomalies in the result.
func Parse(ctx context.Context, r io.Reader) (*domain.ParseResult, error) {
	lr := &lineReader{r: bufio.NewReaderSize(r, readBufferSize)}

	b := &builder{result: &domain.ParseResult{
		Messages:  []domain.Message{},
		Anomalies: []domain.ParseAnomaly{},
	}}

	for {
		line, truncated, err := lr.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read transcript line %d: %w", b.result.LinesRead+1, err)
		}
		b.result.LinesRead++
		if b.result.LinesRead%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if truncated {
			logger.Debug("Line %d: longer than %d bytes, skipped", b.result.LinesRead, maxLineSize)
			b.anomaly(b.result.LinesRead, preview(line), domain.AnomalyLineTooLong,
				fmt.Sprintf("line exceeds %d bytes", maxLineSize))
			continue
		}
		b.consume(domain.RawLine{Content: line, Number: b.result.LinesRead})
	}
	b.flush()

	logger.Debug("Parsed %d lines: %d messages, %d anomalies, %d discarded",
		b.result.LinesRead, len(b.result.Messages), len(b.result.Anomalies), b.result.DiscardedLines)

	return b.result, nil
}

// ParseText parses an in-memory transcript.
func ParseText(text string) *domain.ParseResult {
	// A strings.Reader only reports io.EOF and the context is never
	// cancelled, so Parse has no error path here.
	res, err := Parse(context.Background(), strings.NewReader(text))
	if err != nil {
		return &domain.ParseResult{Messages: []domain.Message{}, Anomalies: []domain.ParseAnomaly{}}
	}
	return res
}

// lineReader yields physical lines without the line terminator. A line
// longer than maxLineSize is returned cut at the limit with truncated set,
// and the reader resumes at the following line.
type lineReader struct {
	r   *bufio.Reader
	buf []byte
}

func (lr *lineReader) next() (line string, truncated bool, err error) {
	lr.buf = lr.buf[:0]
	for {
		chunk, isPrefix, err := lr.r.ReadLine()
		if errors.Is(err, io.EOF) && len(lr.buf) > 0 {
			// Final line exactly filled the read window.
			return string(lr.buf), truncated, nil
		}
		if err != nil {
			return "", false, err
		}
		if room := maxLineSize - len(lr.buf); len(chunk) > room {
			chunk = chunk[:room]
			truncated = true
		}
		lr.buf = append(lr.buf, chunk...)
		if !isPrefix {
			return string(lr.buf), truncated, nil
		}
	}
}

// preview cuts s to at most previewSize bytes on a rune boundary.
func preview(s string) string {
	if len(s) <= previewSize {
		return s
	}
	n := previewSize
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "…"
}

// builder accumulates the message in progress.
type builder struct {
	result *domain.ParseResult
	cur    *domain.Message
	lines  []string
}

func (b *builder) consume(raw domain.RawLine) {
	line := CleanLine(raw.Content)
	if line == "" {
		return
	}

	if h, ok := MatchHeader(line); ok {
		b.flush()

		ts, err := h.Timestamp()
		if err != nil {
			logger.Debug("Line %d: invalid timestamp: %v", raw.Number, err)
			b.anomaly(raw.Number, line, domain.AnomalyInvalidTimestamp, err.Error())
			return
		}

		b.cur = &domain.Message{
			Timestamp: ts,
			Sender:    h.Sender,
			Line:      raw.Number,
		}
		b.lines = b.lines[:0]
		if h.Body == "" {
			b.anomaly(raw.Number, line, domain.AnomalyEmptyBody, "header has no message text")
		} else {
			b.lines = append(b.lines, h.Body)
		}
		return
	}

	if b.cur != nil {
		b.lines = append(b.lines, line)
		return
	}

	b.result.DiscardedLines++
}

// flush finalises the message in progress, if any.
func (b *builder) flush() {
	if b.cur == nil {
		return
	}
	msg := *b.cur
	msg.Body = strings.Join(b.lines, "\n")
	msg.Type = Classify(msg.Body)
	b.result.Messages = append(b.result.Messages, msg)
	b.cur = nil
	b.lines = b.lines[:0]
}

func (b *builder) anomaly(line int, content string, kind domain.AnomalyKind, reason string) {
	b.result.Anomalies = append(b.result.Anomalies, domain.ParseAnomaly{
		Line:    line,
		Content: content,
		Kind:    kind,
		Reason:  reason,
	})
}
