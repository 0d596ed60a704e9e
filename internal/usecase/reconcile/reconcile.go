package usecase_reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/PraiseKol/crossroads/internal/model"
	storage_pairs "github.com/PraiseKol/crossroads/internal/storage/pairs"
)

var ErrSubscribe = errors.New("failed to establish pair update subscription")

// Scope filters the change stream to one feed's pairs.
type Scope struct {
	Category  model.Category
	ExcludeID model.PairID
}

// UpdateStream is one live change-notification subscription. Updates closes
// when the stream ends; Close stops delivery.
type UpdateStream interface {
	Updates() <-chan model.TallyUpdate
	Close() error
}

// Subscriber opens scoped subscriptions on the platform's change stream.
type Subscriber interface {
	Subscribe(ctx context.Context, scope Scope) (UpdateStream, error)
}

// Reconciler merges externally pushed tally updates into the pair cache.
// Each push is applied with ReplaceTally unconditionally: the last write
// observed wins, even when it races an in-flight optimistic vote patch.
// One subscription is held per active feed scope; changing scope tears the
// previous subscription down before the next is established.
type Reconciler struct {
	store      *storage_pairs.Store
	subscriber Subscriber
	logger     *slog.Logger

	mu      sync.Mutex
	scope   *Scope
	stream  UpdateStream
	drained chan struct{}
}

type ReconcilerOption func(*Reconciler)

func WithLogger(logger *slog.Logger) ReconcilerOption {
	return func(r *Reconciler) {
		r.logger = logger
	}
}

func New(store *storage_pairs.Store, subscriber Subscriber, opts ...ReconcilerOption) *Reconciler {
	r := &Reconciler{
		store:      store,
		subscriber: subscriber,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// EnsureScope keeps exactly one subscription alive for the given scope.
// A no-op when the scope is already active; otherwise the old subscription
// is closed before the new one is opened.
func (r *Reconciler) EnsureScope(ctx context.Context, scope Scope) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.scope != nil && *r.scope == scope {
		return nil
	}
	r.teardownLocked()

	stream, err := r.subscriber.Subscribe(ctx, scope)
	if err != nil {
		return fmt.Errorf("%w:%w", ErrSubscribe, err)
	}

	r.scope = &scope
	r.stream = stream
	r.drained = make(chan struct{})
	go r.consume(stream, r.drained)

	r.logger.Info("pair update subscription established",
		"category", scope.Category, "exclude", scope.ExcludeID)
	return nil
}

// Stop closes the active subscription, if any.
func (r *Reconciler) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.teardownLocked()
}

func (r *Reconciler) teardownLocked() {
	if r.stream == nil {
		return
	}
	_ = r.stream.Close()
	<-r.drained
	r.stream = nil
	r.scope = nil
	r.logger.Info("pair update subscription closed")
}

func (r *Reconciler) consume(stream UpdateStream, drained chan struct{}) {
	defer close(drained)

	for upd := range stream.Updates() {
		r.store.ReplaceTally(upd.ID, upd.Votes)
		r.logger.Debug("applied pushed tally",
			"pair_id", upd.ID, "votes_a", upd.Votes.A, "votes_b", upd.Votes.B)
	}
}
