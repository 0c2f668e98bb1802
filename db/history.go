package db

import (
	"bufio"
	"strings"
	"sync"

	"gorm.io/gorm"
)

// History records exports against the current run. It is safe for
// concurrent use; exports finish on their own goroutines.
type History struct {
	db *gorm.DB

	mu      sync.Mutex
	session *Session
}

func NewHistory(d *gorm.DB) *History {
	return &History{db: d}
}

func (h *History) DB() *gorm.DB {
	return h.db
}

func (h *History) sessionIfNeeded() error {
	if h.session != nil {
		return nil
	}
	s := &Session{}
	if err := h.db.Create(s).Error; err != nil {
		return err
	}
	h.session = s
	return nil
}

// Begin stores e as a running export of the current session.
func (h *History) Begin(e *Export) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.sessionIfNeeded(); err != nil {
		return err
	}
	return h.db.Model(h.session).Association("Exports").Append(e)
}

// Finish records how e ended, keeping every non-empty line of the
// encoder's output as a log entry.
func (h *History) Finish(e *Export, outcome string, exitCode int, output string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	e.Outcome = outcome
	e.ExitCode = exitCode
	if err := h.db.Save(e).Error; err != nil {
		return err
	}
	entries := make([]ExportLogEntry, 0)
	s := bufio.NewScanner(strings.NewReader(output))
	for s.Scan() {
		line := strings.TrimRight(s.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		entries = append(entries, ExportLogEntry{ExportID: e.ID, Entry: line})
	}
	if len(entries) == 0 {
		return nil
	}
	return h.db.Create(&entries).Error
}

// Succeeded counts earlier successful exports with the given
// fingerprint.
func (h *History) Succeeded(fingerprint string) (int64, error) {
	var n int64
	err := h.db.Model(&Export{}).
		Where("fingerprint = ? AND outcome = ?", fingerprint, "success").
		Count(&n).Error
	return n, err
}

// FindExport looks an export up by its numeric ID or its UUID.
func FindExport(d *gorm.DB, key string) (*Export, error) {
	e := &Export{}
	q := d.Where("uuid = ?", key)
	if isDigits(key) {
		q = d.Where("id = ? OR uuid = ?", key, key)
	}
	if err := q.First(e).Error; err != nil {
		return nil, err
	}
	return e, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
