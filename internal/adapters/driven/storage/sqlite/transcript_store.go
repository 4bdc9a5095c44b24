package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/chatlens/internal/core/domain"
	"github.com/custodia-labs/chatlens/internal/core/ports/driven"
)

// transcriptStore implements driven.TranscriptStore.
type transcriptStore struct {
	store *Store
}

var _ driven.TranscriptStore = (*transcriptStore)(nil)

// Save stores or replaces a transcript and all of its messages in one transaction.
func (s *transcriptStore) Save(ctx context.Context, t *domain.Transcript) error {
	if t == nil || t.ID == "" {
		return fmt.Errorf("%w: transcript id is required", domain.ErrInvalidInput)
	}

	anomalies := t.Anomalies
	if anomalies == nil {
		anomalies = []domain.ParseAnomaly{}
	}
	anomaliesJSON, err := json.Marshal(anomalies)
	if err != nil {
		return fmt.Errorf("marshalling anomalies: %w", err)
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO transcripts (id, name, format, imported_at, anomalies)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			format = excluded.format,
			imported_at = excluded.imported_at,
			anomalies = excluded.anomalies
	`, t.ID, t.Name, t.Format, t.ImportedAt.UnixNano(), string(anomaliesJSON))
	if err != nil {
		return fmt.Errorf("saving transcript: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM messages WHERE transcript_id = ?", t.ID); err != nil {
		return fmt.Errorf("clearing messages: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO messages (transcript_id, seq, id, ts, sender, body, type, sentiment, line)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing message insert: %w", err)
	}
	defer stmt.Close()

	for i := range t.Messages {
		m := &t.Messages[i]
		sentiment, err := marshalSentiment(m.Sentiment)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, t.ID, i, m.ID, nullTime(m.Timestamp),
			m.Sender, m.Body, string(m.Type), sentiment, m.Line); err != nil {
			return fmt.Errorf("saving message %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transcript: %w", err)
	}
	return nil
}

// Get retrieves a transcript by ID with messages in file order.
func (s *transcriptStore) Get(ctx context.Context, id string) (*domain.Transcript, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, name, format, imported_at, anomalies
		FROM transcripts WHERE id = ?
	`, id)

	var t domain.Transcript
	var importedAt int64
	var anomaliesJSON string
	if err := row.Scan(&t.ID, &t.Name, &t.Format, &importedAt, &anomaliesJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning transcript: %w", err)
	}
	t.ImportedAt = time.Unix(0, importedAt).UTC()

	if err := json.Unmarshal([]byte(anomaliesJSON), &t.Anomalies); err != nil {
		return nil, fmt.Errorf("unmarshaling anomalies: %w", err)
	}

	messages, err := s.messages(ctx, id)
	if err != nil {
		return nil, err
	}
	t.Messages = messages

	return &t, nil
}

func (s *transcriptStore) messages(ctx context.Context, transcriptID string) ([]domain.Message, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, ts, sender, body, type, sentiment, line
		FROM messages WHERE transcript_id = ?
		ORDER BY seq
	`, transcriptID)
	if err != nil {
		return nil, fmt.Errorf("querying messages: %w", err)
	}
	defer rows.Close()

	messages := []domain.Message{}
	for rows.Next() {
		var m domain.Message
		var ts sql.NullInt64
		var msgType string
		var sentiment sql.NullString
		if err := rows.Scan(&m.ID, &ts, &m.Sender, &m.Body, &msgType, &sentiment, &m.Line); err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		m.Type = domain.MessageType(msgType)
		if ts.Valid {
			m.Timestamp = time.Unix(0, ts.Int64).UTC()
		}
		if sentiment.Valid {
			m.Sentiment = &domain.Sentiment{}
			if err := json.Unmarshal([]byte(sentiment.String), m.Sentiment); err != nil {
				return nil, fmt.Errorf("unmarshaling sentiment: %w", err)
			}
		}
		messages = append(messages, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating messages: %w", err)
	}
	return messages, nil
}

// List returns summaries of all transcripts, newest import first.
// Counts and time bounds are computed by the database.
func (s *transcriptStore) List(ctx context.Context) ([]domain.TranscriptSummary, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT t.id, t.name, t.format, t.imported_at, t.anomalies,
			COUNT(m.seq), COUNT(DISTINCT m.sender), MIN(m.ts), MAX(m.ts)
		FROM transcripts t
		LEFT JOIN messages m ON m.transcript_id = t.id
		GROUP BY t.id
		ORDER BY t.imported_at DESC, t.id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying transcripts: %w", err)
	}
	defer rows.Close()

	summaries := []domain.TranscriptSummary{}
	for rows.Next() {
		var sum domain.TranscriptSummary
		var importedAt int64
		var anomaliesJSON string
		var first, last sql.NullInt64
		if err := rows.Scan(&sum.ID, &sum.Name, &sum.Format, &importedAt, &anomaliesJSON,
			&sum.MessageCount, &sum.ParticipantCount, &first, &last); err != nil {
			return nil, fmt.Errorf("scanning transcript: %w", err)
		}
		sum.ImportedAt = time.Unix(0, importedAt).UTC()

		var anomalies []json.RawMessage
		if err := json.Unmarshal([]byte(anomaliesJSON), &anomalies); err != nil {
			return nil, fmt.Errorf("unmarshaling anomalies: %w", err)
		}
		sum.AnomalyCount = len(anomalies)

		if first.Valid {
			sum.FirstMessage = time.Unix(0, first.Int64).UTC()
		}
		if last.Valid {
			sum.LastMessage = time.Unix(0, last.Int64).UTC()
		}
		summaries = append(summaries, sum)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transcripts: %w", err)
	}
	return summaries, nil
}

// Delete removes a transcript; its messages are removed by cascade.
func (s *transcriptStore) Delete(ctx context.Context, id string) error {
	res, err := s.store.db.ExecContext(ctx, "DELETE FROM transcripts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting transcript: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting transcript: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// nullTime stores the zero time as NULL.
func nullTime(t time.Time) sql.NullInt64 {
	if t.IsZero() {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.UnixNano(), Valid: true}
}

func marshalSentiment(s *domain.Sentiment) (sql.NullString, error) {
	if s == nil {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(s)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("marshalling sentiment: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}
