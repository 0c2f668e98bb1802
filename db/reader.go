package db

import (
	"database/sql"
	"io"
	"strings"

	"gorm.io/gorm"
)

// logReader turns the rows of export_log_entries into a single
// newline-separated stream.
type logReader struct {
	rows    *sql.Rows
	pending *strings.Reader
}

func (r *logReader) Read(p []byte) (int, error) {
	for r.pending == nil || r.pending.Len() == 0 {
		// Current line is used up, fetch the next row.
		if !r.rows.Next() {
			if err := r.rows.Err(); err != nil {
				return 0, err
			}
			return 0, io.EOF
		}
		var line string
		if err := r.rows.Scan(&line); err != nil {
			return 0, err
		}
		r.pending = strings.NewReader(line + "\n")
	}
	return r.pending.Read(p)
}

func (r *logReader) Close() error {
	return r.rows.Close()
}

// NewLogReader streams the stored encoder output of an export, one
// line per entry. The reader holds a database connection until it is
// drained or closed.
func NewLogReader(db *gorm.DB, exportID uint) (io.ReadCloser, error) {
	rows, err := db.Raw("SELECT entry FROM export_log_entries WHERE export_id = ? AND deleted_at IS NULL ORDER BY id ASC", exportID).Rows()
	if err != nil {
		return nil, err
	}
	return &logReader{rows: rows}, nil
}
