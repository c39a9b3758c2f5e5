package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/leca/picvault/internal/model"
	_ "modernc.org/sqlite"
)

// Compile-time check that SQLiteDB implements Database.
var _ Database = (*SQLiteDB)(nil)

// SQLiteDB implements Database backed by SQLite.
type SQLiteDB struct {
	db *sql.DB
}

// NewSQLiteDB opens (or creates) an SQLite database at dsn and creates the schema.
// For in-memory use pass "file:<name>?mode=memory&cache=shared".
func NewSQLiteDB(dsn string) (*SQLiteDB, error) {
	if !strings.Contains(dsn, "_pragma") {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLiteDB{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

func (s *SQLiteDB) CreateImage(img *model.Image) error {
	res, err := s.db.Exec(`
		INSERT INTO images (filename, filepath, uploaded_at)
		VALUES (?, ?, ?)`,
		img.Filename, img.Filepath, img.UploadedAt,
	)
	if err != nil {
		return fmt.Errorf("insert image: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert image: last insert id: %w", err)
	}
	img.ID = id
	return nil
}

func (s *SQLiteDB) GetImage(id int64) (*model.Image, error) {
	row := s.db.QueryRow(`
		SELECT id, filename, filepath, uploaded_at
		FROM images WHERE id = ?`,
		id,
	)
	img, err := scanImage(row)
	if err != nil {
		return nil, fmt.Errorf("get image %d: %w", id, err)
	}
	return img, nil
}

func (s *SQLiteDB) FindLatestImage(filename string) (*model.Image, error) {
	row := s.db.QueryRow(`
		SELECT id, filename, filepath, uploaded_at
		FROM images WHERE filename = ?
		ORDER BY id DESC
		LIMIT 1`,
		filename,
	)
	img, err := scanImage(row)
	if err != nil {
		return nil, fmt.Errorf("find image %q: %w", filename, err)
	}
	return img, nil
}

func (s *SQLiteDB) ListImages() ([]*model.Image, error) {
	rows, err := s.db.Query(`
		SELECT id, filename, filepath, uploaded_at
		FROM images
		ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	defer rows.Close()

	var images []*model.Image
	for rows.Next() {
		img, err := scanImage(rows)
		if err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	return images, nil
}

func (s *SQLiteDB) DeleteImage(id int64) error {
	res, err := s.db.Exec(`DELETE FROM images WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete image %d: %w", id, err)
	}
	return checkRowsAffected(res)
}

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

type scanner interface {
	Scan(dest ...any) error
}

func scanImage(row scanner) (*model.Image, error) {
	img := &model.Image{}
	err := row.Scan(&img.ID, &img.Filename, &img.Filepath, &img.UploadedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan image: %w", err)
	}
	return img, nil
}

func checkRowsAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
