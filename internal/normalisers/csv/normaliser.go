// Package csv normalises tabular chat exports into transcript text.
//
// Each row becomes a bracketed header line, so the line parser applies the
// same date rules to CSV and text exports.
package csv

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/custodia-labs/chatlens/internal/core/domain"
	"github.com/custodia-labs/chatlens/internal/core/ports/driven"
	"github.com/custodia-labs/chatlens/internal/normalisers"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Column aliases, matched case-insensitively against the header row.
var (
	DateColumns      = []string{"date", "day"}
	TimeColumns      = []string{"time", "hour"}
	TimestampColumns = []string{"timestamp", "datetime", "date_time", "date time"}
	AuthorColumns    = []string{"author", "sender", "from", "name", "user"}
	MessageColumns   = []string{"message", "text", "body", "content"}
)

var isoDate = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)

// timestampLayouts are tried for a combined timestamp column.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// Normaliser handles CSV chat exports.
type Normaliser struct{}

// New creates a new CSV normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Name returns the normaliser name.
func (n *Normaliser) Name() string {
	return "whatsapp-csv"
}

// SupportedExtensions returns the file extensions this normaliser handles.
func (n *Normaliser) SupportedExtensions() []string {
	return []string{".csv"}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"text/csv", "application/csv"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50
}

// columns holds header positions; -1 means absent.
type columns struct {
	date, clock, timestamp, author, message int
}

// Normalise converts rows to header-shaped lines. Rows without a date or
// author become continuation lines of the previous message.
func (n *Normaliser) Normalise(ctx context.Context, raw *domain.RawFile) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	text, err := normalisers.DecodeText(raw.Content)
	if err != nil {
		return nil, err
	}

	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, domain.ErrEmptyInput
		}
		return nil, fmt.Errorf("%w: read CSV header: %v", domain.ErrInvalidInput, err)
	}

	cols, err := resolveColumns(header)
	if err != nil {
		return nil, err
	}

	var out strings.Builder
	for row := 2; ; row++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: CSV row %d: %v", domain.ErrInvalidInput, row, err)
		}
		out.WriteString(cols.line(record))
		out.WriteByte('\n')
	}

	return &driven.NormaliseResult{Text: out.String()}, nil
}

func resolveColumns(header []string) (columns, error) {
	cols := columns{
		date:      indexOf(header, DateColumns),
		clock:     indexOf(header, TimeColumns),
		timestamp: indexOf(header, TimestampColumns),
		author:    indexOf(header, AuthorColumns),
		message:   indexOf(header, MessageColumns),
	}

	var missing []string
	if cols.date < 0 && cols.timestamp < 0 {
		missing = append(missing, "date")
	}
	if cols.author < 0 {
		missing = append(missing, "author")
	}
	if cols.message < 0 {
		missing = append(missing, "message")
	}
	if len(missing) > 0 {
		return cols, fmt.Errorf("%w: CSV header is missing %s column(s)",
			domain.ErrInvalidInput, strings.Join(missing, ", "))
	}
	return cols, nil
}

// line renders one row as transcript text.
func (c columns) line(record []string) string {
	message := field(record, c.message)
	author := field(record, c.author)
	date, clock := c.when(record)

	if date == "" || author == "" {
		return message
	}
	if clock == "" {
		clock = "00:00"
	}
	return fmt.Sprintf("[%s, %s] %s: %s", date, clock, author, message)
}

// when returns the row's day-first date and time of day.
func (c columns) when(record []string) (date, clock string) {
	if c.date >= 0 {
		date = dayFirst(field(record, c.date))
		clock = field(record, c.clock)
		if date != "" {
			return date, clock
		}
	}

	ts := field(record, c.timestamp)
	if ts == "" {
		return "", ""
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, ts); err == nil {
			return t.Format("2/1/2006"), t.Format("15:04:05")
		}
	}
	// Already in export shape, e.g. "15/01/2025, 10:30".
	date, clock, _ = strings.Cut(ts, ",")
	if !strings.Contains(date, "/") {
		date, clock, _ = strings.Cut(ts, " ")
	}
	return dayFirst(strings.TrimSpace(date)), strings.TrimSpace(clock)
}

// dayFirst rewrites ISO dates as D/M/YYYY and leaves other dates unchanged.
func dayFirst(date string) string {
	if m := isoDate.FindStringSubmatch(date); m != nil {
		return fmt.Sprintf("%s/%s/%s", strings.TrimLeft(m[3], "0"), strings.TrimLeft(m[2], "0"), m[1])
	}
	return date
}

func field(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func indexOf(header []string, names []string) int {
	for _, name := range names {
		for i, h := range header {
			if strings.EqualFold(strings.TrimSpace(h), name) {
				return i
			}
		}
	}
	return -1
}
