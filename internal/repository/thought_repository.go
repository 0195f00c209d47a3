package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	customerrors "github.com/axellelanca/happythoughts/internal/errors"
	"github.com/axellelanca/happythoughts/internal/models"
)

// ThoughtRepository est une interface qui définit les méthodes d'accès aux données
type ThoughtRepository interface {
	CreateThought(ctx context.Context, thought *models.Thought) error
	ListRecentThoughts(ctx context.Context, limit int) ([]models.Thought, error)
	IncrementHearts(ctx context.Context, id string) (*models.Thought, error)
	CountThoughts(ctx context.Context) (int64, error)
	TotalHearts(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error
	Close() error
}

// GormThoughtRepository est l'implémentation de ThoughtRepository utilisant GORM.
type GormThoughtRepository struct {
	db *gorm.DB
}

// NewThoughtRepository crée et retourne une nouvelle instance de GormThoughtRepository.
func NewThoughtRepository(db *gorm.DB) *GormThoughtRepository {
	return &GormThoughtRepository{db: db}
}

// Migrate creates or updates the thoughts table.
func (r *GormThoughtRepository) Migrate() error {
	if err := r.db.AutoMigrate(&models.Thought{}); err != nil {
		return fmt.Errorf("failed to migrate thoughts: %w", err)
	}
	return nil
}

// CreateThought insère une nouvelle pensée dans la base de données.
// The identifier is assigned by the model's BeforeCreate hook.
// created_at is stored in UTC so the text column sorts chronologically.
func (r *GormThoughtRepository) CreateThought(ctx context.Context, thought *models.Thought) error {
	thought.CreatedAt = thought.CreatedAt.UTC()
	if err := r.db.WithContext(ctx).Create(thought).Error; err != nil {
		return fmt.Errorf("failed to create thought: %w", err)
	}
	return nil
}

// ListRecentThoughts récupère les pensées les plus récentes, au plus limit.
func (r *GormThoughtRepository) ListRecentThoughts(ctx context.Context, limit int) ([]models.Thought, error) {
	thoughts := []models.Thought{}
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("seq DESC").
		Limit(limit).
		Find(&thoughts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list recent thoughts: %w", err)
	}
	return thoughts, nil
}

// IncrementHearts adds exactly one heart to the thought and returns the updated row.
// The increment is done by the database (hearts = hearts + 1), and the read back happens in
// the same transaction so the returned value is the one this call produced.
func (r *GormThoughtRepository) IncrementHearts(ctx context.Context, id string) (*models.Thought, error) {
	var thought models.Thought
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Thought{}).
			Where("id = ?", id).
			UpdateColumn("hearts", gorm.Expr("hearts + ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return customerrors.ErrThoughtNotFound
		}
		return tx.Where("id = ?", id).First(&thought).Error
	})
	if err != nil {
		if errors.Is(err, customerrors.ErrThoughtNotFound) || errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, customerrors.ErrThoughtNotFound
		}
		return nil, fmt.Errorf("failed to increment hearts for thought %s: %w", id, err)
	}
	return &thought, nil
}

// CountThoughts compte le nombre total de pensées.
func (r *GormThoughtRepository) CountThoughts(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Thought{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count thoughts: %w", err)
	}
	return count, nil
}

// TotalHearts additionne les likes de toutes les pensées.
func (r *GormThoughtRepository) TotalHearts(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.Thought{}).
		Select("COALESCE(SUM(hearts), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum hearts: %w", err)
	}
	return total, nil
}

// Ping checks that the underlying database still answers.
func (r *GormThoughtRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying SQL database: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the underlying connection pool.
func (r *GormThoughtRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying SQL database: %w", err)
	}
	return sqlDB.Close()
}
