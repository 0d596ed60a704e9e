package http_vote

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	http_common "github.com/PraiseKol/crossroads/internal/delivery/http/common"
	"github.com/PraiseKol/crossroads/internal/model"
	storage_pairs "github.com/PraiseKol/crossroads/internal/storage/pairs"
	usecase_feed "github.com/PraiseKol/crossroads/internal/usecase/feed"
	usecase_vote "github.com/PraiseKol/crossroads/internal/usecase/vote"
)

type Controller struct {
	votes  *usecase_vote.Usecase
	feed   *usecase_feed.Usecase
	logger *slog.Logger
}

type ControllerOption func(*Controller)

func WithLogger(logger *slog.Logger) ControllerOption {
	return func(c *Controller) {
		c.logger = logger
	}
}

func New(votes *usecase_vote.Usecase, feed *usecase_feed.Usecase, opts ...ControllerOption) *Controller {
	c := &Controller{
		votes:  votes,
		feed:   feed,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	pairs := router.Group("/pairs/:pair_id")
	{
		pairs.POST("/votes", c.submit)
		pairs.GET("/vote", c.status)
	}
}

// SubmitVoteRequestDTO carries the choice plus the feed scope the vote was
// cast from, used to compute the scroll-advance target.
type SubmitVoteRequestDTO struct {
	Choice   string `json:"choice" binding:"required"`
	Category string `json:"category"`
	PinnedID string `json:"pinned_id"`
}

// SubmitVoteResponseDTO
type SubmitVoteResponseDTO struct {
	VotesA     int    `json:"votes_a"`
	VotesB     int    `json:"votes_b"`
	NextPairID string `json:"next_pair_id,omitempty"`
}

// VoteStatusResponseDTO
type VoteStatusResponseDTO struct {
	Voted  bool   `json:"voted"`
	Choice string `json:"choice,omitempty"`
}

func (c *Controller) submit(ctx *gin.Context) {
	pairID := ctx.Param("pair_id")

	var req SubmitVoteRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
			Message: "invalid request format",
		})
		return
	}

	tally, err := c.votes.Submit(ctx.Request.Context(), pairID, model.Choice(req.Choice))
	if err != nil {
		c.logger.Warn("vote submission failed",
			slog.String("pair_id", pairID), slog.String("error", err.Error()))
		switch {
		case errors.Is(err, usecase_vote.ErrInvalidChoice):
			ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
				Message: "choice must be A or B",
			})
		case errors.Is(err, usecase_vote.ErrAlreadyVoted):
			ctx.JSON(http.StatusConflict, http_common.ErrorResponse{
				Message: "already voted",
			})
		case errors.Is(err, usecase_vote.ErrVoteInFlight):
			ctx.JSON(http.StatusConflict, http_common.ErrorResponse{
				Message: "vote already in flight",
			})
		case errors.Is(err, usecase_vote.ErrMissingActor):
			ctx.JSON(http.StatusUnprocessableEntity, http_common.ErrorResponse{
				Message: "guests must provide a device id to vote",
			})
		default:
			ctx.JSON(http.StatusBadGateway, http_common.ErrorResponse{
				Message: "vote rejected, try again",
			})
		}
		return
	}

	resp := SubmitVoteResponseDTO{
		VotesA: tally.A,
		VotesB: tally.B,
	}

	// Best-effort scroll advance: the next pair in the rendered sequence.
	category := req.Category
	if category == "" {
		category = model.CategoryAll
	}
	key := storage_pairs.PageKey{Category: category, ExcludeID: req.PinnedID}
	if next, ok := c.feed.NextAfter(key, pairID); ok {
		resp.NextPairID = next
	}

	ctx.JSON(http.StatusOK, resp)
}

func (c *Controller) status(ctx *gin.Context) {
	pairID := ctx.Param("pair_id")

	choice, voted := c.votes.HasVoted(pairID)
	resp := VoteStatusResponseDTO{Voted: voted}
	if voted {
		resp.Choice = string(choice)
	}
	ctx.JSON(http.StatusOK, resp)
}
