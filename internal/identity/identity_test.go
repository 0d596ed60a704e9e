package identity

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/stretchr/testify/assert"
)

type memStore struct {
	data   map[string]string
	setErr error
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string]string)}
}

func (m *memStore) Get(key string) (string, error) { return m.data[key], nil }

func (m *memStore) Set(key string, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	return nil
}

type fixedSession struct {
	userID   string
	signedIn bool
}

func (f fixedSession) UserID() (string, bool) { return f.userID, f.signedIn }

type ResolverUnitSuite struct {
	suite.Suite

	store *memStore
}

func (s *ResolverUnitSuite) BeforeEach(t provider.T) {
	s.store = newMemStore()
}

func (s *ResolverUnitSuite) TestDeviceID(t provider.T) {
	t.Run("First use mints and persists a uuid", func(t provider.T) {
		resolver := New(s.store, nil)

		id := resolver.DeviceID()

		_, err := uuid.Parse(id)
		assert.NoError(t, err)
		assert.Equal(t, id, s.store.data["device_id"])
	})

	t.Run("Same id survives across resolvers", func(t provider.T) {
		first := New(s.store, nil).DeviceID()
		second := New(s.store, nil).DeviceID()

		assert.Equal(t, first, second)
	})

	t.Run("Repeated calls are stable and hit the store once", func(t provider.T) {
		resolver := New(s.store, nil)

		id := resolver.DeviceID()
		assert.Equal(t, id, resolver.DeviceID())
	})

	t.Run("Persistence failure degrades to a session-only id", func(t provider.T) {
		s.store = newMemStore()
		s.store.setErr = errors.New("disk full")
		resolver := New(s.store, nil)

		id := resolver.DeviceID()

		assert.NotEmpty(t, id)
		// Still stable within the process.
		assert.Equal(t, id, resolver.DeviceID())
	})
}

func (s *ResolverUnitSuite) TestActor(t provider.T) {
	t.Run("Guest actor carries only the device id", func(t provider.T) {
		resolver := New(s.store, fixedSession{})

		actor := resolver.Actor()

		assert.NotEmpty(t, actor.DeviceID)
		assert.Empty(t, actor.UserID)
	})

	t.Run("Signed-in actor carries both identities", func(t provider.T) {
		resolver := New(s.store, fixedSession{userID: "user-9", signedIn: true})

		actor := resolver.Actor()

		assert.NotEmpty(t, actor.DeviceID)
		assert.Equal(t, "user-9", actor.UserID)
	})

	t.Run("Nil session behaves as signed out", func(t provider.T) {
		resolver := New(s.store, nil)

		_, ok := resolver.UserID()
		assert.False(t, ok)
	})
}

func TestResolverUnitSuite(t *testing.T) {
	suite.RunSuite(t, new(ResolverUnitSuite))
}
