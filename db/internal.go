package db

import (
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Session is one run of the program. Every export attempted during
// the run hangs off it.
type Session struct {
	gorm.Model
	Exports []Export
}

type Export struct {
	gorm.Model
	SessionID uint
	// UUID correlates the record with log lines and the
	// diagnostic log.
	UUID string `gorm:"uniqueIndex"`
	// Fingerprint is the same for every export of the same
	// range, source and settings.
	Fingerprint  string `gorm:"index"`
	Source       string
	Output       string
	Profile      string
	StartSeconds float64
	EndSeconds   float64
	Executable   string
	Args         datatypes.JSONSlice[string]
	// Outcome is empty while the encoder is running.
	Outcome  string
	ExitCode int
	Entry    []ExportLogEntry
}

// ExportLogEntry is a single line of encoder output.
type ExportLogEntry struct {
	gorm.Model
	ExportID uint
	Entry    string
}

func OpenDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn))
	if err != nil {
		return nil, err
	}
	// Exports finish on their own goroutines. A single connection
	// serializes their writes and, for ":memory:", keeps everyone
	// on the same database.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&Session{}); err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&Export{}); err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&ExportLogEntry{}); err != nil {
		return nil, err
	}
	return db, nil
}
