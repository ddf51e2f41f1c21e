package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	_ "modernc.org/sqlite"

	"umlterm/pkg/diagram"
)

// SQLiteStore keeps diagrams in a single table, one row per user.
type SQLiteStore struct {
	db     *sql.DB
	logger *log.Logger
}

// OpenSQLite opens or creates the database at path.
func OpenSQLite(path string, logger *log.Logger) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite store: empty database path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// sqlite allows a single writer.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db, logger: orDiscard(logger)}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS diagrams (
		user_id TEXT PRIMARY KEY,
		diagram_data TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Load returns the diagram owned by id.
func (s *SQLiteStore) Load(ctx context.Context, id string) (diagram.Diagram, bool, error) {
	if err := checkID(id); err != nil {
		return diagram.Diagram{}, false, err
	}
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT diagram_data FROM diagrams WHERE user_id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return diagram.Diagram{}, false, nil
	}
	if err != nil {
		return diagram.Diagram{}, false, fmt.Errorf("load diagram %s: %w", id, err)
	}
	d, ok := decode(s.logger, id, []byte(data))
	return d, ok, nil
}

// Save upserts the diagram owned by id.
func (s *SQLiteStore) Save(ctx context.Context, id string, d diagram.Diagram) error {
	if err := checkID(id); err != nil {
		return err
	}
	data, err := diagram.Encode(d)
	if err != nil {
		return fmt.Errorf("encode diagram: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO diagrams (user_id, diagram_data, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			diagram_data = excluded.diagram_data,
			updated_at = excluded.updated_at
	`, id, string(data), time.Now().UnixNano())
	if err != nil {
		return fmt.Errorf("save diagram %s: %w", id, err)
	}
	s.logger.Debug("diagram saved", "id", id, "bytes", len(data))
	return nil
}

// List returns the stored diagrams, most recently saved first.
func (s *SQLiteStore) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, updated_at
		FROM diagrams
		ORDER BY updated_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list diagrams: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			id string
			ns int64
		)
		if err := rows.Scan(&id, &ns); err != nil {
			return nil, err
		}
		out = append(out, Entry{ID: id, UpdatedAt: time.Unix(0, ns)})
	}
	return out, rows.Err()
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

var _ Store = (*SQLiteStore)(nil)
