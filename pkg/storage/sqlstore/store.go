package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	settings "github.com/rza1914/ishop-settings/components/settings"
	"github.com/rza1914/ishop-settings/pkg/storage"
)

// Record is the row stored per settings domain.
type Record struct {
	DomainID      string `gorm:"primaryKey;size:64"`
	SchemaVersion int
	Payload       string `gorm:"type:text"`
	UpdatedBy     string `gorm:"size:128"`
	UpdatedAt     time.Time
}

// TableName implements gorm's tabler.
func (Record) TableName() string { return "settings_domains" }

// Store persists settings domains through gorm.
type Store struct {
	db *gorm.DB
}

var _ settings.Persister = (*Store)(nil)

// Open connects to sqlite or postgres and migrates the table.
func Open(driver, dsn string) (*Store, error) {
	var dialector gorm.Dialector
	switch driver {
	case "sqlite":
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("sqlstore: unsupported driver %q", driver)
	}
	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("sqlstore: open %s: %w", driver, err)
	}
	return New(db)
}

// New migrates the settings table on db.
func New(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("sqlstore: migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Save upserts the domain row.
func (s *Store) Save(ctx context.Context, domainID string, snapshot settings.Domain) error {
	payload, err := storage.EncodeSections(snapshot)
	if err != nil {
		return err
	}
	record := Record{
		DomainID:      domainID,
		SchemaVersion: snapshot.SchemaVersion,
		Payload:       string(payload),
		UpdatedBy:     settings.ActivityFromContext(ctx).Who(),
	}
	return s.db.WithContext(ctx).Save(&record).Error
}

// Load returns settings.ErrNotFound for domains without a row.
func (s *Store) Load(ctx context.Context, domainID string) (settings.Domain, error) {
	var record Record
	err := s.db.WithContext(ctx).First(&record, "domain_id = ?", domainID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return settings.Domain{}, settings.ErrNotFound
	}
	if err != nil {
		return settings.Domain{}, err
	}
	return storage.DecodeDomain(domainID, record.SchemaVersion, []byte(record.Payload))
}

// Records lists stored rows ordered by domain id.
func (s *Store) Records(ctx context.Context) ([]Record, error) {
	var records []Record
	err := s.db.WithContext(ctx).Order("domain_id").Find(&records).Error
	return records, err
}
