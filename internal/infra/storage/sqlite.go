package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"exchange_chat/internal/domain"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Storage persists audit records in SQLite.
type Storage struct {
	db *gorm.DB
}

var (
	_ domain.AuditLogger = (*Storage)(nil)
	_ domain.AuditQuery  = (*Storage)(nil)
)

// NewStorage creates a new SQLite storage instance
func NewStorage(dbPath string) (*Storage, error) {
	// Ensure directory exists
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create DB directory: %w", err)
	}

	// Connect to SQLite (Pure Go)
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Auto Migration
	if err := db.AutoMigrate(&domain.AuditEntry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Storage{db: db}, nil
}

// ======================================================================================
// Audit Operations
// ======================================================================================

// Record inserts one audit entry.
func (s *Storage) Record(ctx context.Context, rec domain.AuditRecord) error {
	return s.db.WithContext(ctx).Create(domain.NewAuditEntry(rec)).Error
}

// ListByRequester returns the entries of one user, oldest first.
func (s *Storage) ListByRequester(ctx context.Context, requester string) ([]domain.AuditEntry, error) {
	var entries []domain.AuditEntry
	err := s.db.WithContext(ctx).
		Where("requester = ?", requester).
		Order("id ASC").
		Find(&entries).Error
	return entries, err
}

// Recent returns the newest entries, newest first.
func (s *Storage) Recent(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	var entries []domain.AuditEntry
	err := s.db.WithContext(ctx).Order("id DESC").Limit(limit).Find(&entries).Error
	return entries, err
}

// Close closes the underlying connection pool.
func (s *Storage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
