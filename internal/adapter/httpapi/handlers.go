package httpapi

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/ishaan-vashist/cosmic-event/internal/domain"
	"github.com/ishaan-vashist/cosmic-event/internal/service"
)

// feedResponse is the aggregated feed envelope.
type feedResponse struct {
	Dates        []domain.DateGroup `json:"dates"`
	TotalObjects int                `json:"total_objects"`
}

// extendFeedRequest carries the caller-held groups plus the range to fetch
// and fold in. The held state stays caller-owned between requests.
type extendFeedRequest struct {
	Held          []domain.DateGroup `json:"held"`
	StartDate     string             `json:"start_date"`
	EndDate       string             `json:"end_date"`
	HazardousOnly bool               `json:"hazardous_only"`
	Sort          string             `json:"sort"`
}

type favoritesResponse struct {
	Favorites []domain.Favorite `json:"favorites"`
	Count     int               `json:"count"`
}

type favoriteStatusResponse struct {
	NeoID     string `json:"neo_id"`
	Favorited bool   `json:"favorited"`
}

func (s *Server) handleFeed(c *fiber.Ctx) error {
	q := service.FeedQuery{
		StartDate:     c.Query("start_date"),
		EndDate:       c.Query("end_date"),
		HazardousOnly: c.QueryBool("hazardous_only"),
		Sort:          c.Query("sort"),
	}

	groups, err := s.svc.Feed(c.Context(), q)
	if err != nil {
		return s.sendError(c, err)
	}
	return c.JSON(feedResponse{Dates: groups, TotalObjects: domain.TotalObjects(groups)})
}

func (s *Server) handleExtendFeed(c *fiber.Ctx) error {
	var req extendFeedRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "malformed request body")
	}

	q := service.FeedQuery{
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		HazardousOnly: req.HazardousOnly,
		Sort:          req.Sort,
	}

	merged, err := s.svc.ExtendFeed(c.Context(), req.Held, q)
	if err != nil {
		return s.sendError(c, err)
	}
	return c.JSON(feedResponse{Dates: merged, TotalObjects: domain.TotalObjects(merged)})
}

func (s *Server) handleDetail(c *fiber.Ctx) error {
	obj, err := s.svc.Detail(c.Context(), c.Params("id"), c.QueryBool("include_orbital"))
	if err != nil {
		return s.sendError(c, err)
	}
	return c.JSON(obj)
}

func (s *Server) handleListFavorites(c *fiber.Ctx) error {
	favs, err := s.svc.ListFavorites(c.Context(), sessionUserID(c))
	if err != nil {
		return s.sendError(c, err)
	}
	return c.JSON(favoritesResponse{Favorites: favs, Count: len(favs)})
}

func (s *Server) handleFavoriteStatus(c *fiber.Ctx) error {
	neoID := c.Params("id")
	favorited, err := s.svc.IsFavorite(c.Context(), sessionUserID(c), neoID)
	if err != nil {
		return s.sendError(c, err)
	}
	return c.JSON(favoriteStatusResponse{NeoID: neoID, Favorited: favorited})
}

func (s *Server) handleAddFavorite(c *fiber.Ctx) error {
	fav, err := s.svc.AddFavorite(c.Context(), sessionUserID(c), c.Params("id"))
	if err != nil {
		return s.sendError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fav)
}

func (s *Server) handleRemoveFavorite(c *fiber.Ctx) error {
	if err := s.svc.RemoveFavorite(c.Context(), sessionUserID(c), c.Params("id")); err != nil {
		return s.sendError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// sendError maps the domain error taxonomy onto HTTP statuses and a uniform
// JSON envelope. Validation and not-found details are safe to echo; upstream
// and internal failures are logged and replaced with generic messages.
func (s *Server) sendError(c *fiber.Ctx, err error) error {
	var (
		validationErr *domain.ValidationError
		notFoundErr   *domain.NotFoundError
		upstreamErr   *domain.UpstreamError
		schemaErr     *domain.SchemaError
	)
	switch {
	case errors.As(err, &validationErr):
		return writeError(c, fiber.StatusBadRequest, validationErr.Error())
	case errors.As(err, &notFoundErr):
		return writeError(c, fiber.StatusNotFound, notFoundErr.Error())
	case errors.As(err, &upstreamErr):
		if upstreamErr.RateLimited() {
			if upstreamErr.RetryAfter > 0 {
				c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(upstreamErr.RetryAfter.Seconds())))
			}
			return writeError(c, fiber.StatusServiceUnavailable, "upstream rate limited, retry later")
		}
		s.logger.Error("upstream request failed", "error", err)
		return writeError(c, fiber.StatusBadGateway, "upstream request failed")
	case errors.As(err, &schemaErr):
		s.logger.Error("upstream payload rejected", "error", err)
		return writeError(c, fiber.StatusBadGateway, "upstream payload failed validation")
	default:
		s.logger.Error("request failed", "error", err)
		return writeError(c, fiber.StatusInternalServerError, "internal error")
	}
}

func writeError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": true, "message": message})
}
