package http_feed

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	http_common "github.com/PraiseKol/crossroads/internal/delivery/http/common"
	"github.com/PraiseKol/crossroads/internal/model"
	storage_pairs "github.com/PraiseKol/crossroads/internal/storage/pairs"
	usecase_feed "github.com/PraiseKol/crossroads/internal/usecase/feed"
	usecase_reconcile "github.com/PraiseKol/crossroads/internal/usecase/reconcile"
	usecase_vote "github.com/PraiseKol/crossroads/internal/usecase/vote"
)

type Controller struct {
	feed       *usecase_feed.Usecase
	votes      *usecase_vote.Usecase
	reconciler *usecase_reconcile.Reconciler
	logger     *slog.Logger
}

type ControllerOption func(*Controller)

func WithLogger(logger *slog.Logger) ControllerOption {
	return func(c *Controller) {
		c.logger = logger
	}
}

func New(feed *usecase_feed.Usecase,
	votes *usecase_vote.Usecase,
	reconciler *usecase_reconcile.Reconciler,
	opts ...ControllerOption) *Controller {
	c := &Controller{
		feed:       feed,
		votes:      votes,
		reconciler: reconciler,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/feed", c.list)
	router.GET("/categories", c.categories)
	pairs := router.Group("/pairs")
	{
		pairs.GET("/:pair_id", c.single)
	}
}

// PairDTO
type PairDTO struct {
	ID         string    `json:"id"`
	Category   string    `json:"category,omitempty"`
	OptionA    string    `json:"option_a"`
	OptionB    string    `json:"option_b"`
	VotesA     int       `json:"votes_a"`
	VotesB     int       `json:"votes_b"`
	PercentA   int       `json:"percent_a"`
	PercentB   int       `json:"percent_b"`
	TotalVotes int       `json:"total_votes"`
	CreatedAt  time.Time `json:"created_at"`
	Voted      bool      `json:"voted"`
	Choice     string    `json:"choice,omitempty"`
	SharePath  string    `json:"share_path"`
}

// FeedResponseDTO
type FeedResponseDTO struct {
	Pinned  *PairDTO  `json:"pinned,omitempty"`
	Pairs   []PairDTO `json:"pairs"`
	HasMore bool      `json:"has_more"`
}

// CategoriesResponseDTO
type CategoriesResponseDTO struct {
	Categories []string `json:"categories"`
}

func (c *Controller) list(ctx *gin.Context) {
	category := ctx.DefaultQuery("category", model.CategoryAll)
	if !model.ValidCategory(category) {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
			Message: "unknown category",
		})
		return
	}

	pinnedID := ctx.Query("pinned")
	pages, err := strconv.Atoi(ctx.DefaultQuery("pages", "1"))
	if err != nil || pages < 1 {
		pages = 1
	}

	key := storage_pairs.PageKey{Category: category, ExcludeID: pinnedID}

	// One subscription per active feed scope; superseded scopes are torn
	// down inside the reconciler.
	if subErr := c.reconciler.EnsureScope(ctx.Request.Context(), usecase_reconcile.Scope{
		Category:  category,
		ExcludeID: pinnedID,
	}); subErr != nil {
		c.logger.Warn("feed served without live updates", slog.String("error", subErr.Error()))
	}

	pairs, hasMore, err := c.feed.Feed(ctx.Request.Context(), key, pages)
	if err != nil {
		c.logger.Error("failed to load feed", slog.String("error", err.Error()))
		ctx.JSON(http.StatusBadGateway, http_common.ErrorResponse{
			Message: "something went wrong",
		})
		return
	}

	resp := FeedResponseDTO{
		Pairs:   make([]PairDTO, 0, len(pairs)),
		HasMore: hasMore,
	}

	if pinnedID != "" {
		if pinned, err := c.feed.Pair(ctx.Request.Context(), pinnedID); err == nil {
			dto := c.toDTO(pinned)
			resp.Pinned = &dto
		}
		pairs = usecase_feed.StripPinned(pairs, pinnedID)
	}

	for _, p := range pairs {
		resp.Pairs = append(resp.Pairs, c.toDTO(p))
	}
	ctx.JSON(http.StatusOK, resp)
}

func (c *Controller) single(ctx *gin.Context) {
	id := ctx.Param("pair_id")

	pair, err := c.feed.Pair(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, usecase_feed.ErrPairNotFound) {
			ctx.JSON(http.StatusNotFound, http_common.ErrorResponse{
				Message: "poll not found",
			})
			return
		}
		c.logger.Error("failed to load pair", slog.String("error", err.Error()))
		ctx.JSON(http.StatusBadGateway, http_common.ErrorResponse{
			Message: "something went wrong",
		})
		return
	}

	ctx.JSON(http.StatusOK, c.toDTO(pair))
}

func (c *Controller) categories(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, CategoriesResponseDTO{
		Categories: model.Categories,
	})
}

func (c *Controller) toDTO(p model.Pair) PairDTO {
	dto := PairDTO{
		ID:         p.ID,
		Category:   p.Category,
		OptionA:    p.OptionA,
		OptionB:    p.OptionB,
		VotesA:     p.Votes.A,
		VotesB:     p.Votes.B,
		TotalVotes: p.Votes.Total(),
		CreatedAt:  p.CreatedAt,
		SharePath:  "/poll/" + p.ID,
	}
	if total := p.Votes.Total(); total > 0 {
		dto.PercentA = int(float64(p.Votes.A)/float64(total)*100 + 0.5)
		dto.PercentB = 100 - dto.PercentA
	}
	if choice, voted := c.votes.HasVoted(p.ID); voted {
		dto.Voted = true
		dto.Choice = string(choice)
	}
	return dto
}
