package indexer

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"launchpad/core/types"
)

// Store persists ledger events in a relational database.
type Store struct {
	db *gorm.DB
}

// Open connects the store. Driver is "sqlite" or "postgres".
func Open(driver, dsn string) (*Store, error) {
	var dialector gorm.Dialector
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", "sqlite":
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported indexer driver %q", driver)
	}
	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("open indexer database: %w", err)
	}
	if err := db.AutoMigrate(&EventRecord{}); err != nil {
		return nil, fmt.Errorf("migrate indexer schema: %w", err)
	}
	return &Store{db: db}, nil
}

// NewStore wraps an existing gorm handle, migrating the schema.
func NewStore(db *gorm.DB) (*Store, error) {
	if db == nil {
		return nil, fmt.Errorf("indexer store requires a database")
	}
	if err := db.AutoMigrate(&EventRecord{}); err != nil {
		return nil, fmt.Errorf("migrate indexer schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Record persists one event.
func (s *Store) Record(evt *types.Event) error {
	if evt == nil {
		return nil
	}
	attrs, err := json.Marshal(evt.Attributes)
	if err != nil {
		return fmt.Errorf("encode event attributes: %w", err)
	}
	record := &EventRecord{
		Type:       evt.Type,
		Symbol:     evt.Attributes["symbol"],
		Attributes: string(attrs),
	}
	return s.db.Create(record).Error
}

// Query filters stored events.
type Query struct {
	Type   string
	Symbol string
	Limit  int
}

// List returns matching events, newest first.
func (s *Store) List(q Query) ([]EventRecord, error) {
	limit := q.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	tx := s.db.Model(&EventRecord{}).Order("sequence DESC").Limit(limit)
	if q.Type != "" {
		tx = tx.Where("type = ?", q.Type)
	}
	if q.Symbol != "" {
		tx = tx.Where("symbol = ?", q.Symbol)
	}
	var records []EventRecord
	if err := tx.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Count returns the number of stored events.
func (s *Store) Count() (int64, error) {
	var count int64
	err := s.db.Model(&EventRecord{}).Count(&count).Error
	return count, err
}
