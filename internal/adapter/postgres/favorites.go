package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ishaan-vashist/cosmic-event/internal/config"
	"github.com/ishaan-vashist/cosmic-event/internal/domain"
)

// Open connects to Postgres using the configured DSN.
func Open(cfg config.PostgresConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return db, nil
}

// Migrate creates or updates the favorites table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&favoriteRecord{}); err != nil {
		return fmt.Errorf("migrate favorites: %w", err)
	}
	return nil
}

// favoriteRecord is the favorites table row. The (user_id, neo_id) pair is
// unique so re-adding a favorite cannot duplicate it.
type favoriteRecord struct {
	ID               uint   `gorm:"primaryKey"`
	UserID           string `gorm:"index:idx_favorites_user_neo,unique;not null"`
	NeoID            string `gorm:"index:idx_favorites_user_neo,unique;not null"`
	Name             string `gorm:"not null"`
	Hazardous        bool   `gorm:"not null"`
	ApproachDatetime *string
	AvgDiameterKm    *float64
	CreatedAt        time.Time `gorm:"not null"`
}

func (favoriteRecord) TableName() string { return "favorites" }

// FavoriteStore persists favorites in Postgres.
type FavoriteStore struct {
	db *gorm.DB
}

// NewFavoriteStore creates a favorites store on an open connection.
func NewFavoriteStore(db *gorm.DB) *FavoriteStore {
	return &FavoriteStore{db: db}
}

// Add inserts a favorite. Conflicts on the (user_id, neo_id) index are
// ignored, so re-adding is a no-op.
func (s *FavoriteStore) Add(ctx context.Context, fav domain.Favorite) error {
	rec := toRecord(fav)
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rec).Error
	if err != nil {
		return fmt.Errorf("insert favorite: %w", err)
	}
	return nil
}

// Remove deletes a user's favorite. Unknown favorites delete zero rows.
func (s *FavoriteStore) Remove(ctx context.Context, userID, neoID string) error {
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND neo_id = ?", userID, neoID).
		Delete(&favoriteRecord{}).Error
	if err != nil {
		return fmt.Errorf("delete favorite: %w", err)
	}
	return nil
}

// List returns a user's favorites, most recently added first.
func (s *FavoriteStore) List(ctx context.Context, userID string) ([]domain.Favorite, error) {
	var records []favoriteRecord
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("select favorites: %w", err)
	}

	favs := make([]domain.Favorite, 0, len(records))
	for _, rec := range records {
		favs = append(favs, toDomain(rec))
	}
	return favs, nil
}

// IsFavorite reports whether the user has favorited the object.
func (s *FavoriteStore) IsFavorite(ctx context.Context, userID, neoID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&favoriteRecord{}).
		Where("user_id = ? AND neo_id = ?", userID, neoID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("count favorites: %w", err)
	}
	return count > 0, nil
}

func toRecord(fav domain.Favorite) favoriteRecord {
	return favoriteRecord{
		UserID:           fav.UserID,
		NeoID:            fav.NeoID,
		Name:             fav.Name,
		Hazardous:        fav.Hazardous,
		ApproachDatetime: fav.ApproachDatetime,
		AvgDiameterKm:    fav.AvgDiameterKm,
		CreatedAt:        fav.CreatedAt,
	}
}

func toDomain(rec favoriteRecord) domain.Favorite {
	return domain.Favorite{
		UserID:           rec.UserID,
		NeoID:            rec.NeoID,
		Name:             rec.Name,
		Hazardous:        rec.Hazardous,
		ApproachDatetime: rec.ApproachDatetime,
		AvgDiameterKm:    rec.AvgDiameterKm,
		CreatedAt:        rec.CreatedAt,
	}
}
