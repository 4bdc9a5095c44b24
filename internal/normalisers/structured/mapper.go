// Package structured maps loosely shaped message records, as found in JSON
// and YAML chat exports, onto domain messages.
package structured

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/chatlens/internal/core/domain"
	"github.com/custodia-labs/chatlens/internal/parser"
)

// Field aliases, checked in order. Keys are matched case-insensitively.
var (
	SenderKeys    = []string{"sender", "author", "from", "name", "user"}
	BodyKeys      = []string{"body", "message", "text", "content"}
	TimestampKeys = []string{"timestamp", "datetime", "date_time", "date"}
	TimeKeys      = []string{"time"}
	TypeKeys      = []string{"type", "kind"}
	IDKeys        = []string{"id"}
)

// timeLayouts are tried in order for string timestamps.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// dayFirstPattern matches D/M/Y with an optional time of day.
var dayFirstPattern = regexp.MustCompile(
	`^(\d{1,2})[/.](\d{1,2})[/.](\d{2,4})(?:,?\s*(\d{1,2}):(\d{2})(?::(\d{2}))?\s*([AaPp]\.?[Mm]\.?)?)?$`)

// Decode extracts message records from a decoded document. The document is
// either an array of records or an object with a "messages" array.
func Decode(doc any) ([]domain.Message, error) {
	switch v := doc.(type) {
	case []any:
		return Map(v)
	case map[string]any:
		for key, val := range v {
			if strings.EqualFold(key, "messages") {
				records, ok := val.([]any)
				if !ok {
					return nil, fmt.Errorf("%w: \"messages\" is not an array", domain.ErrInvalidInput)
				}
				return Map(records)
			}
		}
		return nil, fmt.Errorf("%w: object has no \"messages\" array", domain.ErrInvalidInput)
	case nil:
		return nil, domain.ErrEmptyInput
	default:
		return nil, fmt.Errorf("%w: expected an array of messages, got %T", domain.ErrInvalidInput, doc)
	}
}

// Map converts records in order. The first malformed record aborts with
// domain.ErrMalformedRecord.
func Map(records []any) ([]domain.Message, error) {
	messages := make([]domain.Message, 0, len(records))
	for i, rec := range records {
		obj, ok := rec.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: record %d is %T, not an object", domain.ErrMalformedRecord, i+1, rec)
		}
		msg, err := Record(obj)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i+1, err)
		}
		msg.Line = i + 1
		messages = append(messages, msg)
	}
	return messages, nil
}

// Record converts a single record. Sender and body are required; a missing
// timestamp yields the zero time. Records without a valid type are text.
func Record(obj map[string]any) (domain.Message, error) {
	var msg domain.Message

	sender, ok := lookupString(obj, SenderKeys)
	if !ok || strings.TrimSpace(sender) == "" {
		return msg, fmt.Errorf("%w: missing sender", domain.ErrMalformedRecord)
	}
	body, ok := lookupString(obj, BodyKeys)
	if !ok {
		return msg, fmt.Errorf("%w: missing body", domain.ErrMalformedRecord)
	}

	msg.Sender = strings.TrimSpace(sender)
	msg.Body = body
	msg.Type = domain.MessageTypeText

	if id, ok := lookupString(obj, IDKeys); ok {
		msg.ID = id
	}
	if t, ok := lookupString(obj, TypeKeys); ok {
		if mt := domain.MessageType(strings.ToLower(t)); mt.IsValid() {
			msg.Type = mt
		}
	}

	raw, ok := lookup(obj, TimestampKeys)
	if !ok {
		return msg, nil
	}
	if clock, ok := lookupString(obj, TimeKeys); ok {
		if date, isString := raw.(string); isString {
			raw = date + " " + clock
		}
	}
	ts, err := ParseTimestamp(raw)
	if err != nil {
		return msg, fmt.Errorf("%w: %v", domain.ErrMalformedRecord, err)
	}
	msg.Timestamp = ts
	return msg, nil
}

// ParseTimestamp accepts time values, unix seconds as numbers or numeric
// strings, ISO layouts and day-first D/M/Y dates. Results are in UTC.
func ParseTimestamp(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t.UTC(), nil
	case int:
		return time.Unix(int64(t), 0).UTC(), nil
	case int64:
		return time.Unix(t, 0).UTC(), nil
	case uint64:
		return time.Unix(int64(t), 0).UTC(), nil
	case float64:
		sec, frac := math.Modf(t)
		return time.Unix(int64(sec), int64(frac*1e9)).UTC(), nil
	case string:
		return parseTimestampString(strings.TrimSpace(t))
	default:
		return time.Time{}, fmt.Errorf("unsupported timestamp type %T", v)
	}
}

func parseTimestampString(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	if sec, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(sec, 0).UTC(), nil
	}
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC(), nil
		}
	}
	if m := dayFirstPattern.FindStringSubmatch(s); m != nil {
		h := parser.Header{
			Day:      atoi(m[1]),
			Month:    atoi(m[2]),
			Year:     atoi(m[3]),
			Hour:     atoi(m[4]),
			Minute:   atoi(m[5]),
			Second:   atoi(m[6]),
			Meridiem: strings.ToUpper(strings.ReplaceAll(m[7], ".", "")),
		}
		return h.Timestamp()
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}

func lookup(obj map[string]any, keys []string) (any, bool) {
	for _, want := range keys {
		for k, v := range obj {
			if strings.EqualFold(k, want) && v != nil {
				return v, true
			}
		}
	}
	return nil, false
}

func lookupString(obj map[string]any, keys []string) (string, bool) {
	v, ok := lookup(obj, keys)
	if !ok {
		return "", false
	}
	switch s := v.(type) {
	case string:
		return s, true
	case fmt.Stringer:
		return s.String(), true
	case int, int64, float64, bool:
		return fmt.Sprint(s), true
	default:
		return "", false
	}
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
