package conversation

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Store persists conversations in SQLite. Saves are whole-conversation
// upserts inside one transaction; loads rebuild messages in insertion order.
type Store struct {
	db     *sql.DB
	mu     sync.Mutex
	dbPath string
}

// Summary is one row of a conversation listing.
type Summary struct {
	ID        string
	UpdatedAt time.Time
	TurnCount int
}

// OpenStore initializes the SQLite database at the given path, creating the
// parent directory and schema as needed.
func OpenStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db, dbPath: path}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS conversations (
		id TEXT PRIMARY KEY,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL,
		turn_count INTEGER NOT NULL DEFAULT 0,
		ambiguity_requests INTEGER NOT NULL DEFAULT 0,
		clarification_count INTEGER NOT NULL DEFAULT 0,
		topics TEXT NOT NULL DEFAULT '[]'
	);
	CREATE TABLE IF NOT EXISTS messages (
		id TEXT PRIMARY KEY,
		conversation_id TEXT NOT NULL REFERENCES conversations(id) ON DELETE CASCADE,
		seq INTEGER NOT NULL,
		role TEXT NOT NULL,
		content TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_messages_conversation ON messages(conversation_id, seq);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Save upserts the whole conversation: the metadata row is replaced and the
// message rows rewritten so the stored history always mirrors memory.
func (s *Store) Save(c *Conversation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	topics, err := json.Marshal(c.Topics)
	if err != nil {
		return fmt.Errorf("failed to encode topics: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO conversations (id, created_at, updated_at, turn_count, ambiguity_requests, clarification_count, topics)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			updated_at = excluded.updated_at,
			turn_count = excluded.turn_count,
			ambiguity_requests = excluded.ambiguity_requests,
			clarification_count = excluded.clarification_count,
			topics = excluded.topics`,
		c.ID,
		c.Meta.CreatedAt.UnixMilli(),
		c.Meta.UpdatedAt.UnixMilli(),
		c.Meta.TurnCount,
		c.Meta.AmbiguityRequests,
		c.Meta.ClarificationCount,
		string(topics),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert conversation: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM messages WHERE conversation_id = ?`, c.ID); err != nil {
		return fmt.Errorf("failed to clear messages: %w", err)
	}
	for i, m := range c.Messages {
		_, err := tx.Exec(`
			INSERT INTO messages (id, conversation_id, seq, role, content, created_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			m.ID, c.ID, i, m.Role, m.Content, m.Timestamp.UnixMilli(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert message: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// Load rebuilds a conversation. Returns sql.ErrNoRows wrapped when the ID is
// unknown.
func (s *Store) Load(id string) (*Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		c          = &Conversation{ID: id}
		created    int64
		updated    int64
		topicsJSON string
	)
	err := s.db.QueryRow(`
		SELECT created_at, updated_at, turn_count, ambiguity_requests, clarification_count, topics
		FROM conversations WHERE id = ?`, id).
		Scan(&created, &updated, &c.Meta.TurnCount, &c.Meta.AmbiguityRequests, &c.Meta.ClarificationCount, &topicsJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation %s: %w", id, err)
	}
	c.Meta.CreatedAt = time.UnixMilli(created).UTC()
	c.Meta.UpdatedAt = time.UnixMilli(updated).UTC()
	if err := json.Unmarshal([]byte(topicsJSON), &c.Topics); err != nil {
		return nil, fmt.Errorf("failed to decode topics: %w", err)
	}

	rows, err := s.db.Query(`
		SELECT id, role, content, created_at
		FROM messages WHERE conversation_id = ? ORDER BY seq`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m Message
		var ts int64
		if err := rows.Scan(&m.ID, &m.Role, &m.Content, &ts); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		m.Timestamp = time.UnixMilli(ts).UTC()
		c.Messages = append(c.Messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate messages: %w", err)
	}
	return c, nil
}

// List returns summaries of all stored conversations, most recently updated
// first.
func (s *Store) List() ([]Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`
		SELECT id, updated_at, turn_count FROM conversations ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var sum Summary
		var updated int64
		if err := rows.Scan(&sum.ID, &updated, &sum.TurnCount); err != nil {
			return nil, fmt.Errorf("failed to scan summary: %w", err)
		}
		sum.UpdatedAt = time.UnixMilli(updated).UTC()
		out = append(out, sum)
	}
	return out, rows.Err()
}

// Delete removes a conversation and its messages.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec(`DELETE FROM messages WHERE conversation_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete messages: %w", err)
	}
	if _, err := s.db.Exec(`DELETE FROM conversations WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete conversation: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
