package usecase_vote

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/PraiseKol/crossroads/internal/model"
	storage_pairs "github.com/PraiseKol/crossroads/internal/storage/pairs"
)

var (
	ErrAlreadyVoted  = errors.New("actor already voted on this pair")
	ErrVoteInFlight  = errors.New("vote submission already in flight")
	ErrMissingActor  = errors.New("guests must provide a device id to vote")
	ErrInvalidChoice = errors.New("invalid choice")
	ErrVoteRejected  = errors.New("vote rejected")
)

// VoteCaster is the platform's atomic vote RPC.
type VoteCaster interface {
	CastVote(ctx context.Context, pairID model.PairID, choice model.Choice, deviceID string) (model.TallyUpdate, error)
}

// Identity resolves who is voting.
type Identity interface {
	DeviceID() string
	UserID() (string, bool)
	Actor() model.Actor
}

// Usecase runs one vote attempt through Idle -> Submitting -> Confirmed or
// RolledBack: optimistic cache patch, remote cast, authoritative replace on
// success, snapshot restore on failure.
type Usecase struct {
	store    *storage_pairs.Store
	caster   VoteCaster
	identity Identity
	logger   *slog.Logger

	mu       sync.Mutex
	inflight map[model.PairID]struct{}
	voted    map[model.PairID]model.Choice
}

type UsecaseOption func(*Usecase)

func WithLogger(logger *slog.Logger) UsecaseOption {
	return func(u *Usecase) {
		u.logger = logger
	}
}

func New(store *storage_pairs.Store, caster VoteCaster, identity Identity, opts ...UsecaseOption) *Usecase {
	u := &Usecase{
		store:    store,
		caster:   caster,
		identity: identity,
		logger:   slog.Default(),
		inflight: make(map[model.PairID]struct{}),
		voted:    make(map[model.PairID]model.Choice),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Submit casts the actor's vote on a pair. The already-voted and in-flight
// guards reject without invoking the remote call. On success the
// authoritative tally is applied to every cache entry and the actor's
// choice is recorded; on failure every touched entry is restored to its
// pre-patch state and the vote stays retryable.
func (u *Usecase) Submit(ctx context.Context, pairID model.PairID, choice model.Choice) (model.Tally, error) {
	if !model.ValidChoice(choice) {
		return model.Tally{}, fmt.Errorf("%w: %q", ErrInvalidChoice, choice)
	}

	actor := u.identity.Actor()
	if actor.IsZero() {
		return model.Tally{}, ErrMissingActor
	}

	if err := u.enterSubmitting(pairID, actor); err != nil {
		return model.Tally{}, err
	}
	defer u.leaveSubmitting(pairID)

	snap := u.store.Snapshot(pairID)
	u.store.PatchTally(pairID, choice, 1)

	deviceID := actor.DeviceID
	if actor.UserID != "" {
		// Signed-in votes are tagged by user; the RPC infers it from the token.
		deviceID = ""
	}

	row, err := u.caster.CastVote(ctx, pairID, choice, deviceID)
	if err != nil {
		u.store.Restore(snap)
		u.logger.Warn("vote rolled back", "pair_id", pairID, "error", err)
		if errors.Is(err, ErrVoteRejected) {
			return model.Tally{}, err
		}
		return model.Tally{}, fmt.Errorf("%w:%w", ErrVoteRejected, err)
	}

	u.store.ReplaceTally(row.ID, row.Votes)
	u.markVoted(pairID, choice)

	u.logger.Info("vote confirmed",
		"pair_id", pairID, "choice", choice, "votes_a", row.Votes.A, "votes_b", row.Votes.B)
	return row.Votes, nil
}

// HasVoted reports whether this actor already voted on the pair, and with
// which choice. Session-confirmed votes win; otherwise the first matching
// vote record on the cached pair is authoritative.
func (u *Usecase) HasVoted(pairID model.PairID) (model.Choice, bool) {
	u.mu.Lock()
	if choice, ok := u.voted[pairID]; ok {
		u.mu.Unlock()
		return choice, true
	}
	u.mu.Unlock()

	pair, ok := u.store.Find(pairID)
	if !ok {
		return "", false
	}

	if vote, found := pair.VoteBy(u.identity.Actor()); found {
		return vote.Choice, true
	}
	return "", false
}

func (u *Usecase) enterSubmitting(pairID model.PairID, actor model.Actor) error {
	if _, voted := u.HasVoted(pairID); voted {
		return ErrAlreadyVoted
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	if _, busy := u.inflight[pairID]; busy {
		return ErrVoteInFlight
	}
	u.inflight[pairID] = struct{}{}
	return nil
}

func (u *Usecase) leaveSubmitting(pairID model.PairID) {
	u.mu.Lock()
	defer u.mu.Unlock()
	delete(u.inflight, pairID)
}

func (u *Usecase) markVoted(pairID model.PairID, choice model.Choice) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.voted[pairID] = choice
}
