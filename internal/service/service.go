package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/ishaan-vashist/cosmic-event/internal/domain"
	"github.com/ishaan-vashist/cosmic-event/internal/observability"
)

// Provider fetches raw NeoWs payloads for a date range or a single object.
type Provider interface {
	Feed(ctx context.Context, r domain.DateRange) ([]byte, error)
	Lookup(ctx context.Context, id string) ([]byte, error)
}

// FeedQuery carries raw, unvalidated feed parameters as received from a
// client. Empty dates fall back to the upstream defaults.
type FeedQuery struct {
	StartDate     string
	EndDate       string
	HazardousOnly bool
	Sort          string
}

// resolvedQuery is a FeedQuery after validation: a concrete date range and a
// known sort policy.
type resolvedQuery struct {
	Range         domain.DateRange
	HazardousOnly bool
	Sort          domain.SortPolicy
}

// cacheKey identifies the resolved query for response caching. Queries with
// equal keys produce the same feed.
func (q resolvedQuery) cacheKey() string {
	return fmt.Sprintf("%s|%s|%t|%s", q.Range.StartString(), q.Range.EndString(), q.HazardousOnly, q.Sort)
}

var errFavoritesDisabled = errors.New("favorites store not configured")

// Service answers feed, detail, and favorites operations by combining the
// upstream provider with the domain transforms.
type Service struct {
	provider     Provider
	favorites    domain.FavoriteStore
	logger       *slog.Logger
	metrics      *observability.Metrics
	maxRangeDays int
	ready        atomic.Bool
}

// New creates a Service. Pass a nil favorites store to disable favorite
// operations.
func New(provider Provider, favorites domain.FavoriteStore, logger *slog.Logger, metrics *observability.Metrics, maxRangeDays int) *Service {
	return &Service{
		provider:     provider,
		favorites:    favorites,
		logger:       logger,
		metrics:      metrics,
		maxRangeDays: maxRangeDays,
	}
}

// CheckReadiness returns nil once the first upstream round trip has
// succeeded, or an error describing why the service is not yet ready.
func (s *Service) CheckReadiness(_ context.Context) error {
	if !s.ready.Load() {
		return errors.New("no upstream fetch has succeeded yet")
	}
	return nil
}

// Feed fetches the query's date range, validates the payload, and aggregates
// it into per-date groups filtered and ordered per the query.
func (s *Service) Feed(ctx context.Context, q FeedQuery) ([]domain.DateGroup, error) {
	groups, err := s.feed(ctx, q)
	s.metrics.FeedRequests.WithLabelValues(outcomeFor(err)).Inc()
	return groups, err
}

func (s *Service) feed(ctx context.Context, q FeedQuery) ([]domain.DateGroup, error) {
	rq, err := s.resolve(q)
	if err != nil {
		return nil, err
	}
	return s.feedResolved(ctx, rq)
}

// ExtendFeed fetches the query's range and merges it into the held groups,
// deduplicating by object id with held entries winning.
func (s *Service) ExtendFeed(ctx context.Context, held []domain.DateGroup, q FeedQuery) ([]domain.DateGroup, error) {
	merged, err := s.extendFeed(ctx, held, q)
	s.metrics.FeedRequests.WithLabelValues(outcomeFor(err)).Inc()
	return merged, err
}

func (s *Service) extendFeed(ctx context.Context, held []domain.DateGroup, q FeedQuery) ([]domain.DateGroup, error) {
	rq, err := s.resolve(q)
	if err != nil {
		return nil, err
	}
	incoming, err := s.feedResolved(ctx, rq)
	if err != nil {
		return nil, err
	}
	return s.merge(held, incoming, rq.Sort), nil
}

// Detail fetches a single object by id and normalizes it with the full
// approach list. Orbital parameters are attached only when requested.
func (s *Service) Detail(ctx context.Context, id string, includeOrbital bool) (domain.NEO, error) {
	obj, err := s.detail(ctx, id, includeOrbital)
	s.metrics.DetailRequests.WithLabelValues(outcomeFor(err)).Inc()
	return obj, err
}

func (s *Service) detail(ctx context.Context, id string, includeOrbital bool) (domain.NEO, error) {
	if strings.TrimSpace(id) == "" {
		return domain.NEO{}, &domain.ValidationError{Param: "id", Reason: "must not be empty"}
	}
	body, err := s.provider.Lookup(ctx, id)
	if err != nil {
		return domain.NEO{}, err
	}
	raw, err := domain.ParseDetailPayload(body)
	if err != nil {
		return domain.NEO{}, err
	}
	s.markReady()
	return domain.NormalizeDetail(*raw, includeOrbital), nil
}

// AddFavorite fetches the object and snapshots it into the user's favorites.
// Adding an already-favorited object succeeds without change.
func (s *Service) AddFavorite(ctx context.Context, userID, neoID string) (domain.Favorite, error) {
	fav, err := s.addFavorite(ctx, userID, neoID)
	s.metrics.FavoriteOps.WithLabelValues("add", opOutcome(err)).Inc()
	return fav, err
}

func (s *Service) addFavorite(ctx context.Context, userID, neoID string) (domain.Favorite, error) {
	if err := s.favoritesReady(userID); err != nil {
		return domain.Favorite{}, err
	}
	obj, err := s.detail(ctx, neoID, false)
	if err != nil {
		return domain.Favorite{}, err
	}
	fav := domain.NewFavorite(userID, obj)
	if err := s.favorites.Add(ctx, fav); err != nil {
		return domain.Favorite{}, fmt.Errorf("store favorite: %w", err)
	}
	s.logger.Info("favorite added", "user_id", userID, "neo_id", neoID)
	return fav, nil
}

// RemoveFavorite deletes the user's favorite for the object. Removing an
// unknown favorite succeeds without change.
func (s *Service) RemoveFavorite(ctx context.Context, userID, neoID string) error {
	err := s.removeFavorite(ctx, userID, neoID)
	s.metrics.FavoriteOps.WithLabelValues("remove", opOutcome(err)).Inc()
	return err
}

func (s *Service) removeFavorite(ctx context.Context, userID, neoID string) error {
	if err := s.favoritesReady(userID); err != nil {
		return err
	}
	if strings.TrimSpace(neoID) == "" {
		return &domain.ValidationError{Param: "id", Reason: "must not be empty"}
	}
	if err := s.favorites.Remove(ctx, userID, neoID); err != nil {
		return fmt.Errorf("remove favorite: %w", err)
	}
	s.logger.Info("favorite removed", "user_id", userID, "neo_id", neoID)
	return nil
}

// ListFavorites returns the user's favorites, most recently added first.
func (s *Service) ListFavorites(ctx context.Context, userID string) ([]domain.Favorite, error) {
	favs, err := s.listFavorites(ctx, userID)
	s.metrics.FavoriteOps.WithLabelValues("list", opOutcome(err)).Inc()
	return favs, err
}

func (s *Service) listFavorites(ctx context.Context, userID string) ([]domain.Favorite, error) {
	if err := s.favoritesReady(userID); err != nil {
		return nil, err
	}
	favs, err := s.favorites.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	return favs, nil
}

// IsFavorite reports whether the user has favorited the object.
func (s *Service) IsFavorite(ctx context.Context, userID, neoID string) (bool, error) {
	ok, err := s.isFavorite(ctx, userID, neoID)
	s.metrics.FavoriteOps.WithLabelValues("check", opOutcome(err)).Inc()
	return ok, err
}

func (s *Service) isFavorite(ctx context.Context, userID, neoID string) (bool, error) {
	if err := s.favoritesReady(userID); err != nil {
		return false, err
	}
	if strings.TrimSpace(neoID) == "" {
		return false, &domain.ValidationError{Param: "id", Reason: "must not be empty"}
	}
	ok, err := s.favorites.IsFavorite(ctx, userID, neoID)
	if err != nil {
		return false, fmt.Errorf("check favorite: %w", err)
	}
	return ok, nil
}

// resolve validates a raw query into a concrete date range and sort policy.
func (s *Service) resolve(q FeedQuery) (resolvedQuery, error) {
	sort, err := domain.ParseSortPolicy(q.Sort)
	if err != nil {
		return resolvedQuery{}, err
	}
	r, err := domain.ParseDateRange(q.StartDate, q.EndDate, s.maxRangeDays)
	if err != nil {
		return resolvedQuery{}, err
	}
	return resolvedQuery{Range: r, HazardousOnly: q.HazardousOnly, Sort: sort}, nil
}

// feedResolved runs the fetch-validate-aggregate path for a resolved query.
// The cached variant substitutes this step on cache hits.
func (s *Service) feedResolved(ctx context.Context, rq resolvedQuery) ([]domain.DateGroup, error) {
	payload, err := s.fetchFeed(ctx, rq.Range)
	if err != nil {
		return nil, err
	}
	groups := domain.AggregateFeed(payload, domain.FeedOptions{HazardousOnly: rq.HazardousOnly, Sort: rq.Sort})
	total := domain.TotalObjects(groups)
	s.metrics.ObjectsAggregated.Add(float64(total))
	s.logger.Debug("feed aggregated",
		"range", rq.Range.String(),
		"dates", len(groups),
		"objects", total,
		"hazardous_only", rq.HazardousOnly,
		"sort", string(rq.Sort),
	)
	return groups, nil
}

// fetchFeed pulls one feed payload from the provider and validates its shape.
func (s *Service) fetchFeed(ctx context.Context, r domain.DateRange) (*domain.FeedPayload, error) {
	body, err := s.provider.Feed(ctx, r)
	if err != nil {
		return nil, err
	}
	payload, err := domain.ParseFeedPayload(body)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateFeedPayload(payload); err != nil {
		return nil, err
	}
	s.markReady()
	return payload, nil
}

// merge combines held and incoming groups and counts the merge.
func (s *Service) merge(held, incoming []domain.DateGroup, policy domain.SortPolicy) []domain.DateGroup {
	merged := domain.MergeDateGroups(held, incoming, policy)
	s.metrics.MergeRequests.Inc()
	s.logger.Debug("feed merged",
		"held_dates", len(held),
		"incoming_dates", len(incoming),
		"merged_dates", len(merged),
	)
	return merged
}

// markReady flips the readiness flag after the first validated upstream
// round trip.
func (s *Service) markReady() {
	if s.ready.CompareAndSwap(false, true) {
		s.metrics.ServiceReady.Set(1)
		s.logger.Info("service ready")
	}
}

func (s *Service) favoritesReady(userID string) error {
	if s.favorites == nil {
		return errFavoritesDisabled
	}
	if strings.TrimSpace(userID) == "" {
		return &domain.ValidationError{Param: "user_id", Reason: "must not be empty"}
	}
	return nil
}

// outcomeFor maps an operation error onto a metric outcome label.
func outcomeFor(err error) string {
	if err == nil {
		return "success"
	}
	var (
		validationErr *domain.ValidationError
		notFoundErr   *domain.NotFoundError
		upstreamErr   *domain.UpstreamError
		schemaErr     *domain.SchemaError
	)
	switch {
	case errors.As(err, &validationErr):
		return "validation_error"
	case errors.As(err, &notFoundErr):
		return "not_found"
	case errors.As(err, &upstreamErr):
		return "upstream_error"
	case errors.As(err, &schemaErr):
		return "schema_error"
	default:
		return "error"
	}
}

func opOutcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
