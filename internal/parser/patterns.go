package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// HeaderPattern is one accepted shape of a message header line.
// Every pattern captures, in order: day, month, year, hour, minute,
// optional second, optional AM/PM marker, sender and body.
type HeaderPattern struct {
	Name   string
	Regexp *regexp.Regexp
}

// HeaderPatterns are tried in order; the first match wins.
var HeaderPatterns = []HeaderPattern{
	{
		// [15/01/2024, 14:30:25] Alice: Hello
		Name: "bracketed",
		Regexp: regexp.MustCompile(
			`^\[(\d{1,2})/(\d{1,2})/(\d{2,4}),\s*(\d{1,2}):(\d{2})(?::(\d{2}))?\s*([AaPp]\.?[Mm]\.?)?\]\s*([^:]+?):\s?(.*)$`),
	},
	{
		// 15/01/2024, 14:30 - Alice: Hello
		Name: "dashed",
		Regexp: regexp.MustCompile(
			`^(\d{1,2})/(\d{1,2})/(\d{2,4}),\s*(\d{1,2}):(\d{2})(?::(\d{2}))?\s*([AaPp]\.?[Mm]\.?)?\s*-\s*([^:]+?):\s?(.*)$`),
	},
}

// Header holds the fields captured from a header line.
type Header struct {
	Pattern  string
	Day      int
	Month    int
	Year     int
	Hour     int
	Minute   int
	Second   int
	Meridiem string
	Sender   string
	Body     string
}

// MatchHeader tries every header pattern against line.
// The line must already be cleaned with CleanLine.
func MatchHeader(line string) (Header, bool) {
	for _, p := range HeaderPatterns {
		m := p.Regexp.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		h := Header{
			Pattern:  p.Name,
			Day:      atoi(m[1]),
			Month:    atoi(m[2]),
			Year:     atoi(m[3]),
			Hour:     atoi(m[4]),
			Minute:   atoi(m[5]),
			Second:   atoi(m[6]),
			Meridiem: normaliseMeridiem(m[7]),
			Sender:   strings.TrimSpace(m[8]),
			Body:     strings.TrimSpace(m[9]),
		}
		return h, true
	}
	return Header{}, false
}

// Timestamp builds the message time from the header fields.
// Day and month overflow roll over the calendar; values that cannot name
// a time of day at all are rejected.
func (h Header) Timestamp() (time.Time, error) {
	if h.Day == 0 || h.Month == 0 {
		return time.Time{}, fmt.Errorf("day and month must be positive, got %d/%d", h.Day, h.Month)
	}
	if h.Minute > 59 || h.Second > 59 {
		return time.Time{}, fmt.Errorf("minute or second out of range: %02d:%02d", h.Minute, h.Second)
	}

	hour := h.Hour
	switch h.Meridiem {
	case "":
		if hour > 23 {
			return time.Time{}, fmt.Errorf("hour out of range: %d", hour)
		}
	case "AM", "PM":
		if hour == 0 || hour > 12 {
			return time.Time{}, fmt.Errorf("hour out of range for 12-hour clock: %d %s", hour, h.Meridiem)
		}
		if h.Meridiem == "PM" && hour < 12 {
			hour += 12
		}
		if h.Meridiem == "AM" && hour == 12 {
			hour = 0
		}
	}

	year := h.Year
	if year < 100 {
		year += 2000
	}

	return time.Date(year, time.Month(h.Month), h.Day, hour, h.Minute, h.Second, 0, time.UTC), nil
}

// CleanLine strips invisible marks that exports insert around timestamps
// and maps narrow and non-breaking spaces to plain spaces, then trims.
func CleanLine(line string) string {
	line = lineCleaner.Replace(line)
	return strings.TrimSpace(line)
}

var lineCleaner = strings.NewReplacer(
	"\u200e", "",  // left-to-right mark
	"\u200f", "",  // right-to-left mark
	"\ufeff", "",  // byte order mark
	"\u202f", " ", // narrow no-break space
	"\u00a0", " ", // no-break space
	"\r", "",
)

func normaliseMeridiem(s string) string {
	return strings.ToUpper(strings.ReplaceAll(s, ".", ""))
}

func atoi(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
