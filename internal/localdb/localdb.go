package localdb

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// Open opens the portal's durable local store. Each state package
// migrates its own tables on construction.
func Open(path string) (*gorm.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("local store path is empty")
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}
	return db, nil
}

// OpenMemory returns a private in-memory store, used by tests.
func OpenMemory() (*gorm.DB, error) {
	return Open(":memory:")
}
