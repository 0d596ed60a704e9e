package usecase_feed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/PraiseKol/crossroads/internal/model"
	storage_pairs "github.com/PraiseKol/crossroads/internal/storage/pairs"
)

var (
	ErrFetchPage    = errors.New("failed to fetch feed page")
	ErrFetchPair    = errors.New("failed to fetch pair")
	ErrPairNotFound = errors.New("pair not found")
)

const DefaultPageSize = 10

// PairFetcher is the platform's paged and single-pair query surface.
type PairFetcher interface {
	FetchPage(ctx context.Context, category model.Category, page int, pageSize int, excludeID model.PairID) ([]model.Pair, error)
	FetchByID(ctx context.Context, id model.PairID) (model.Pair, error)
}

// Usecase serves pair data out of the cache, fetching from the platform on
// miss. It is the only reader-facing path into the cache.
type Usecase struct {
	store    *storage_pairs.Store
	fetcher  PairFetcher
	pageSize int
	logger   *slog.Logger
}

type UsecaseOption func(*Usecase)

func WithLogger(logger *slog.Logger) UsecaseOption {
	return func(u *Usecase) {
		u.logger = logger
	}
}

func WithPageSize(n int) UsecaseOption {
	return func(u *Usecase) {
		u.pageSize = n
	}
}

func New(store *storage_pairs.Store, fetcher PairFetcher, opts ...UsecaseOption) *Usecase {
	u := &Usecase{
		store:    store,
		fetcher:  fetcher,
		pageSize: DefaultPageSize,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Page returns the 1-based page for the key, fetching on miss. Once a fetch
// comes back empty the key is exhausted and later requests short-circuit
// without touching the platform. No automatic retry on failure.
func (u *Usecase) Page(ctx context.Context, key storage_pairs.PageKey, index int) ([]model.Pair, error) {
	if cached, ok := u.store.Page(key, index); ok {
		return cached, nil
	}
	if u.store.Exhausted(key) && index > u.store.PageCount(key) {
		return nil, nil
	}

	pairs, err := u.fetcher.FetchPage(ctx, key.Category, index, u.pageSize, key.ExcludeID)
	if err != nil {
		u.logger.Error("page fetch failed",
			"category", key.Category, "page", index, "error", err)
		return nil, fmt.Errorf("%w:%w", ErrFetchPage, err)
	}

	u.store.SetPage(key, index, pairs)
	return pairs, nil
}

// Feed returns pages 1..throughPage flattened in order plus whether more
// pages may exist.
func (u *Usecase) Feed(ctx context.Context, key storage_pairs.PageKey, throughPage int) ([]model.Pair, bool, error) {
	if throughPage < 1 {
		throughPage = 1
	}
	for index := u.store.PageCount(key) + 1; index <= throughPage; index++ {
		if u.store.Exhausted(key) {
			break
		}
		page, err := u.Page(ctx, key, index)
		if err != nil {
			return nil, false, err
		}
		if len(page) == 0 {
			break
		}
	}
	return u.store.Flatten(key), u.HasMore(key), nil
}

// HasMore reports whether another page request could still return data.
func (u *Usecase) HasMore(key storage_pairs.PageKey) bool {
	return !u.store.Exhausted(key)
}

// Pair returns one pair by id, fetching on miss. Not-found is terminal for
// the requesting view.
func (u *Usecase) Pair(ctx context.Context, id model.PairID) (model.Pair, error) {
	if cached, ok := u.store.Single(id); ok {
		return cached, nil
	}

	pair, err := u.fetcher.FetchByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrPairNotFound) {
			return model.Pair{}, err
		}
		u.logger.Error("pair fetch failed", "pair_id", id, "error", err)
		return model.Pair{}, fmt.Errorf("%w:%w", ErrFetchPair, err)
	}

	u.store.SetSingle(pair)
	return pair, nil
}

// NextAfter returns the pair following id in the feed's rendered order, for
// the post-vote scroll advance. Best effort: ok is false at the end of the
// sequence or when id is not in the feed.
func (u *Usecase) NextAfter(key storage_pairs.PageKey, id model.PairID) (model.PairID, bool) {
	pairs := u.store.Flatten(key)
	for i, p := range pairs {
		if p.ID == id && i+1 < len(pairs) {
			return pairs[i+1].ID, true
		}
	}
	return model.EmptyPairID, false
}

// Invalidate drops the cached pages for a key so the next feed request
// refetches from page one.
func (u *Usecase) Invalidate(key storage_pairs.PageKey) {
	u.store.Invalidate(key)
}

// StripPinned removes exactly one occurrence of the pinned pair from the
// rendered sequence. The platform already excludes it server-side; this is
// the display-time safeguard for stale data fetched before the exclusion
// took effect.
func StripPinned(pairs []model.Pair, pinnedID model.PairID) []model.Pair {
	if pinnedID == model.EmptyPairID {
		return pairs
	}
	for i, p := range pairs {
		if p.ID == pinnedID {
			out := make([]model.Pair, 0, len(pairs)-1)
			out = append(out, pairs[:i]...)
			return append(out, pairs[i+1:]...)
		}
	}
	return pairs
}
