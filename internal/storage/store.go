package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/arrdeck/arrdeck/pkg/encryption"
	"github.com/arrdeck/arrdeck/pkg/models"
)

// ErrNotFound is returned when no service config exists for an id.
var ErrNotFound = errors.New("service config not found")

type serviceConfigRecord struct {
	ID        string `gorm:"primaryKey"`
	Name      string `gorm:"not null"`
	Type      string `gorm:"not null;index"`
	URL       string `gorm:"not null"`
	APIKey    string // ciphertext
	Enabled   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (serviceConfigRecord) TableName() string { return "service_configs" }

// Store persists service configurations. API keys are encrypted before
// they touch the database and decrypted on the way out.
type Store struct {
	db        *gorm.DB
	encryptor *encryption.Encryptor
}

// NewStore creates a config store over an opened database.
func NewStore(db *gorm.DB, encryptor *encryption.Encryptor) *Store {
	return &Store{db: db, encryptor: encryptor}
}

// List returns every saved service configuration with plaintext keys.
func (s *Store) List(ctx context.Context) ([]models.ServiceConfig, error) {
	var records []serviceConfigRecord
	if err := s.db.WithContext(ctx).Order("created_at").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list service configs: %w", err)
	}

	configs := make([]models.ServiceConfig, 0, len(records))
	for _, rec := range records {
		cfg, err := s.toModel(rec)
		if err != nil {
			return nil, err
		}
		configs = append(configs, cfg)
	}
	return configs, nil
}

// Get returns one saved service configuration.
func (s *Store) Get(ctx context.Context, id string) (models.ServiceConfig, error) {
	var rec serviceConfigRecord
	err := s.db.WithContext(ctx).First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.ServiceConfig{}, ErrNotFound
	}
	if err != nil {
		return models.ServiceConfig{}, fmt.Errorf("failed to load service config %s: %w", id, err)
	}
	return s.toModel(rec)
}

// Save upserts a service configuration.
func (s *Store) Save(ctx context.Context, cfg models.ServiceConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	ciphertext, err := s.encryptor.Encrypt(cfg.APIKey)
	if err != nil {
		return fmt.Errorf("failed to encrypt api key for %s: %w", cfg.ID, err)
	}

	now := time.Now().UTC()
	rec := serviceConfigRecord{
		ID:        cfg.ID,
		Name:      cfg.Name,
		Type:      string(cfg.Type),
		URL:       cfg.URL,
		APIKey:    ciphertext,
		Enabled:   cfg.Enabled,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if !cfg.CreatedAt.IsZero() {
		rec.CreatedAt = cfg.CreatedAt
	}

	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "type", "url", "api_key", "enabled", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("failed to save service config %s: %w", cfg.ID, err)
	}
	return nil
}

// Remove deletes a service configuration. Removing an unknown id is a
// no-op.
func (s *Store) Remove(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Delete(&serviceConfigRecord{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to remove service config %s: %w", id, err)
	}
	return nil
}

// ClearAll deletes every saved service configuration.
func (s *Store) ClearAll(ctx context.Context) error {
	if err := s.db.WithContext(ctx).Where("1 = 1").Delete(&serviceConfigRecord{}).Error; err != nil {
		return fmt.Errorf("failed to clear service configs: %w", err)
	}
	return nil
}

func (s *Store) toModel(rec serviceConfigRecord) (models.ServiceConfig, error) {
	apiKey, err := s.encryptor.Decrypt(rec.APIKey)
	if err != nil {
		return models.ServiceConfig{}, fmt.Errorf("failed to decrypt api key for %s: %w", rec.ID, err)
	}
	return models.ServiceConfig{
		ID:        rec.ID,
		Name:      rec.Name,
		Type:      models.ServiceType(rec.Type),
		URL:       rec.URL,
		APIKey:    apiKey,
		Enabled:   rec.Enabled,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}, nil
}
