package identity

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/PraiseKol/crossroads/internal/model"
)

const deviceIDKey = "device_id"

// DeviceStore is the persistent local storage the device id lives in.
type DeviceStore interface {
	Get(key string) (string, error)
	Set(key string, value string) error
}

// Session reports the authenticated identity, if any.
type Session interface {
	UserID() (string, bool)
}

// Resolver derives the actor identity used to tag votes and answer "has
// this actor already voted": a lazily created, persisted device id plus the
// optional signed-in user id.
type Resolver struct {
	store   DeviceStore
	session Session
	logger  *slog.Logger

	mu     sync.Mutex
	cached string
}

type ResolverOption func(*Resolver)

func WithLogger(logger *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		r.logger = logger
	}
}

func New(store DeviceStore, session Session, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		store:   store,
		session: session,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// DeviceID returns the persisted device id, generating and persisting a new
// one on first use. When persistence fails the fresh id is still used for
// the rest of the process lifetime.
func (r *Resolver) DeviceID() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cached != "" {
		return r.cached
	}

	stored, err := r.store.Get(deviceIDKey)
	if err == nil && stored != "" {
		r.cached = stored
		return stored
	}

	fresh := uuid.NewString()
	if err := r.store.Set(deviceIDKey, fresh); err != nil {
		r.logger.Warn("device id not persisted, using session-only id", "error", err)
	}
	r.cached = fresh
	return fresh
}

// UserID returns the authenticated user id when signed in.
func (r *Resolver) UserID() (string, bool) {
	if r.session == nil {
		return "", false
	}
	return r.session.UserID()
}

// Actor returns the identity votes are tagged with. The user id takes
// precedence when signed in; the device id is carried either way so a vote
// cast before sign-in still counts as this actor's.
func (r *Resolver) Actor() model.Actor {
	actor := model.Actor{DeviceID: r.DeviceID()}
	if userID, ok := r.UserID(); ok {
		actor.UserID = userID
	}
	return actor
}
