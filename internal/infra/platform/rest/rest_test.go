package infra_platform_rest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PraiseKol/crossroads/internal/model"
	usecase_feed "github.com/PraiseKol/crossroads/internal/usecase/feed"
	usecase_vote "github.com/PraiseKol/crossroads/internal/usecase/vote"
)

type staticToken string

func (s staticToken) AccessToken() string { return string(s) }

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchPageQueryAndHeaders(t *testing.T) {
	var gotReq *http.Request
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotReq = r.Clone(context.Background())
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"p1","category":"Sports","option_a":"Cats","option_b":"Dogs","votes_a":3,"votes_b":5}]`))
	})

	client := New(srv.URL, "anon-key", WithTokenSource(staticToken("jwt-token")))

	pairs, err := client.FetchPage(context.Background(), "Sports", 2, 10, "pinned-1")
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, model.Tally{A: 3, B: 5}, pairs[0].Votes)

	q := gotReq.URL.Query()
	assert.Equal(t, "/rest/v1/pairs", gotReq.URL.Path)
	assert.Equal(t, "2", q.Get("page"))
	assert.Equal(t, "10", q.Get("page_size"))
	assert.Equal(t, "created_at.desc", q.Get("order"))
	assert.Equal(t, "Sports", q.Get("category"))
	assert.Equal(t, "pinned-1", q.Get("exclude"))
	assert.Equal(t, "anon-key", gotReq.Header.Get("apikey"))
	assert.Equal(t, "Bearer jwt-token", gotReq.Header.Get("Authorization"))
}

func TestFetchPageAllCategoryOmitsFilters(t *testing.T) {
	var query string
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		w.Write([]byte(`[]`))
	})

	client := New(srv.URL, "anon-key")

	pairs, err := client.FetchPage(context.Background(), model.CategoryAll, 1, 10, model.EmptyPairID)
	require.NoError(t, err)
	assert.Empty(t, pairs)
	assert.NotContains(t, query, "category=")
	assert.NotContains(t, query, "exclude=")
}

func TestFetchByID(t *testing.T) {
	t.Run("votes field preferred and records normalized", func(t *testing.T) {
		srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/rest/v1/pairs/p1", r.URL.Path)
			w.Write([]byte(`{
				"id":"p1","option_a":"Tea","option_b":"Coffee","votes_a":2,"votes_b":1,
				"votes":[
					{"device_id":"d1","user_id":"u1","choice":"A"},
					{"device_id":"d2","choice":"B"},
					{"choice":"A"}
				],
				"voters":[{"device_id":"stale","choice":"B"}]
			}`))
		})

		client := New(srv.URL, "anon-key")

		pair, err := client.FetchByID(context.Background(), "p1")
		require.NoError(t, err)
		// user_id wins over device_id, identity-less records are dropped,
		// and the legacy voters field is ignored when votes is present.
		require.Len(t, pair.Voters, 2)
		assert.Equal(t, model.Vote{UserID: "u1", Choice: model.ChoiceA}, pair.Voters[0])
		assert.Equal(t, model.Vote{DeviceID: "d2", Choice: model.ChoiceB}, pair.Voters[1])
	})

	t.Run("legacy voters field used when votes is absent", func(t *testing.T) {
		srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"id":"p1","voters":[{"device_id":"d1","choice":"A"}]}`))
		})

		client := New(srv.URL, "anon-key")

		pair, err := client.FetchByID(context.Background(), "p1")
		require.NoError(t, err)
		require.Len(t, pair.Voters, 1)
		assert.Equal(t, model.Vote{DeviceID: "d1", Choice: model.ChoiceA}, pair.Voters[0])
	})

	t.Run("404 maps to the not-found sentinel", func(t *testing.T) {
		srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})

		client := New(srv.URL, "anon-key")

		_, err := client.FetchByID(context.Background(), "missing")
		assert.ErrorIs(t, err, usecase_feed.ErrPairNotFound)
	})

	t.Run("5xx maps to the bad-status sentinel", func(t *testing.T) {
		srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})

		client := New(srv.URL, "anon-key")

		_, err := client.FetchByID(context.Background(), "p1")
		assert.ErrorIs(t, err, ErrBadStatus)
	})
}

func TestCastVote(t *testing.T) {
	t.Run("single row response", func(t *testing.T) {
		srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/rest/v1/rpc/cast_vote", r.URL.Path)
			assert.Equal(t, http.MethodPost, r.Method)
			w.Write([]byte(`{"id":"p1","votes_a":7,"votes_b":6}`))
		})

		client := New(srv.URL, "anon-key")

		upd, err := client.CastVote(context.Background(), "p1", model.ChoiceA, "device-1")
		require.NoError(t, err)
		assert.Equal(t, model.TallyUpdate{ID: "p1", Votes: model.Tally{A: 7, B: 6}}, upd)
	})

	t.Run("one-element array response", func(t *testing.T) {
		srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[{"id":"p1","votes_a":7,"votes_b":6}]`))
		})

		client := New(srv.URL, "anon-key")

		upd, err := client.CastVote(context.Background(), "p1", model.ChoiceA, "device-1")
		require.NoError(t, err)
		assert.Equal(t, model.TallyUpdate{ID: "p1", Votes: model.Tally{A: 7, B: 6}}, upd)
	})

	t.Run("empty array is a rejection", func(t *testing.T) {
		srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[]`))
		})

		client := New(srv.URL, "anon-key")

		_, err := client.CastVote(context.Background(), "p1", model.ChoiceA, "device-1")
		assert.ErrorIs(t, err, usecase_vote.ErrVoteRejected)
	})

	t.Run("non-200 is a rejection", func(t *testing.T) {
		srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusConflict)
		})

		client := New(srv.URL, "anon-key")

		_, err := client.CastVote(context.Background(), "p1", model.ChoiceA, "device-1")
		assert.ErrorIs(t, err, usecase_vote.ErrVoteRejected)
	})
}
