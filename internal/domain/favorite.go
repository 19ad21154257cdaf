package domain

import (
	"context"
	"time"
)

// Favorite is a user's bookmarked object, snapshotted at save time so the
// list renders without refetching the upstream.
type Favorite struct {
	UserID           string    `json:"user_id"`
	NeoID            string    `json:"neo_id"`
	Name             string    `json:"name"`
	Hazardous        bool      `json:"hazardous"`
	ApproachDatetime *string   `json:"approach_datetime"`
	AvgDiameterKm    *float64  `json:"avg_diameter_km"`
	CreatedAt        time.Time `json:"created_at"`
}

// NewFavorite snapshots a normalized object for a user. CreatedAt comes from
// the package clock so tests can freeze it.
func NewFavorite(userID string, obj NEO) Favorite {
	fav := Favorite{
		UserID:        userID,
		NeoID:         obj.ID,
		Name:          obj.Name,
		Hazardous:     obj.Hazardous,
		AvgDiameterKm: obj.AvgDiameterKm,
		CreatedAt:     clock.Now().UTC(),
	}
	if obj.NearestApproach != nil {
		fav.ApproachDatetime = obj.NearestApproach.Datetime
	}
	return fav
}

// FavoriteStore persists user favorites.
type FavoriteStore interface {
	// Add stores a favorite. Adding an already-favorited object is a no-op.
	Add(ctx context.Context, fav Favorite) error

	// Remove deletes a user's favorite. Removing an unknown one is a no-op.
	Remove(ctx context.Context, userID, neoID string) error

	// List returns a user's favorites, most recently added first.
	List(ctx context.Context, userID string) ([]Favorite, error)

	// IsFavorite reports whether the user has favorited the object.
	IsFavorite(ctx context.Context, userID, neoID string) (bool, error)
}
