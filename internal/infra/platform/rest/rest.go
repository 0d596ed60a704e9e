package infra_platform_rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/PraiseKol/crossroads/internal/model"
	usecase_feed "github.com/PraiseKol/crossroads/internal/usecase/feed"
	usecase_vote "github.com/PraiseKol/crossroads/internal/usecase/vote"
)

var ErrBadStatus = errors.New("unexpected platform status")

// TokenSource supplies the current bearer token, empty when signed out.
type TokenSource interface {
	AccessToken() string
}

// Client speaks the platform's REST surface: the paged pair query, the
// single pair query and the cast_vote RPC.
type Client struct {
	baseURL     string
	apiKey      string
	tokenSource TokenSource
	httpClient  *http.Client
}

type ClientOption func(*Client)

func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func WithTokenSource(ts TokenSource) ClientOption {
	return func(c *Client) {
		c.tokenSource = ts
	}
}

func New(baseURL string, apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// voteDTO carries both identity columns off the wire; normalization into
// exactly one of them happens in toModel.
type voteDTO struct {
	DeviceID string `json:"device_id"`
	UserID   string `json:"user_id"`
	Choice   string `json:"choice"`
}

type pairDTO struct {
	ID        string    `json:"id"`
	Category  string    `json:"category"`
	OptionA   string    `json:"option_a"`
	OptionB   string    `json:"option_b"`
	VotesA    int       `json:"votes_a"`
	VotesB    int       `json:"votes_b"`
	CreatedAt time.Time `json:"created_at"`
	// Older rows expose the records as "voters", newer ones as "votes".
	Votes  []voteDTO `json:"votes"`
	Voters []voteDTO `json:"voters"`
}

func (d pairDTO) toModel() model.Pair {
	records := d.Votes
	if len(records) == 0 {
		records = d.Voters
	}

	voters := make([]model.Vote, 0, len(records))
	for _, v := range records {
		switch {
		case v.UserID != "":
			voters = append(voters, model.Vote{UserID: v.UserID, Choice: model.Choice(v.Choice)})
		case v.DeviceID != "":
			voters = append(voters, model.Vote{DeviceID: v.DeviceID, Choice: model.Choice(v.Choice)})
		}
		// Records with neither identity are dropped.
	}

	return model.Pair{
		ID:        d.ID,
		Category:  d.Category,
		OptionA:   d.OptionA,
		OptionB:   d.OptionB,
		Votes:     model.Tally{A: d.VotesA, B: d.VotesB},
		CreatedAt: d.CreatedAt,
		Voters:    voters,
	}
}

// FetchPage requests one feed page, created-at descending. page is 1-based.
// An empty result means there are no further pages.
func (c *Client) FetchPage(ctx context.Context, category model.Category, page int, pageSize int, excludeID model.PairID) ([]model.Pair, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("page_size", strconv.Itoa(pageSize))
	params.Set("order", "created_at.desc")
	if category != "" && category != model.CategoryAll {
		params.Set("category", category)
	}
	if excludeID != model.EmptyPairID {
		params.Set("exclude", excludeID)
	}

	var dtos []pairDTO
	if err := c.getJSON(ctx, "/rest/v1/pairs?"+params.Encode(), &dtos); err != nil {
		return nil, fmt.Errorf("failed to fetch pairs page: %w", err)
	}

	pairs := make([]model.Pair, 0, len(dtos))
	for _, d := range dtos {
		pairs = append(pairs, d.toModel())
	}
	return pairs, nil
}

// FetchByID requests one pair with its vote records.
func (c *Client) FetchByID(ctx context.Context, id model.PairID) (model.Pair, error) {
	var dto pairDTO
	if err := c.getJSON(ctx, "/rest/v1/pairs/"+url.PathEscape(id), &dto); err != nil {
		if errors.Is(err, usecase_feed.ErrPairNotFound) {
			return model.Pair{}, err
		}
		return model.Pair{}, fmt.Errorf("failed to fetch pair %s: %w", id, err)
	}
	return dto.toModel(), nil
}

type castVoteRequest struct {
	PairID   string `json:"pair_id"`
	Choice   string `json:"choice"`
	DeviceID string `json:"device_id,omitempty"`
}

type castVoteRow struct {
	ID     string `json:"id"`
	VotesA int    `json:"votes_a"`
	VotesB int    `json:"votes_b"`
}

// CastVote invokes the atomic vote RPC and returns the authoritative row.
// deviceID may be empty only for an authenticated caller.
func (c *Client) CastVote(ctx context.Context, pairID model.PairID, choice model.Choice, deviceID string) (model.TallyUpdate, error) {
	body, err := json.Marshal(castVoteRequest{
		PairID:   pairID,
		Choice:   string(choice),
		DeviceID: deviceID,
	})
	if err != nil {
		return model.TallyUpdate{}, fmt.Errorf("failed to marshal cast_vote request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/rest/v1/rpc/cast_vote", bytes.NewReader(body))
	if err != nil {
		return model.TallyUpdate{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	c.setAuthHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.TallyUpdate{}, fmt.Errorf("%w:%w", usecase_vote.ErrVoteRejected, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.TallyUpdate{}, fmt.Errorf("%w: status %d", usecase_vote.ErrVoteRejected, resp.StatusCode)
	}

	// The RPC may answer with a single row or a one-element array.
	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return model.TallyUpdate{}, fmt.Errorf("%w: undecodable response", usecase_vote.ErrVoteRejected)
	}
	var row castVoteRow
	if len(raw) > 0 && raw[0] == '[' {
		var rows []castVoteRow
		if err := json.Unmarshal(raw, &rows); err != nil || len(rows) == 0 {
			return model.TallyUpdate{}, fmt.Errorf("%w: empty response", usecase_vote.ErrVoteRejected)
		}
		row = rows[0]
	} else if err := json.Unmarshal(raw, &row); err != nil || row.ID == "" {
		return model.TallyUpdate{}, fmt.Errorf("%w: empty response", usecase_vote.ErrVoteRejected)
	}

	return model.TallyUpdate{
		ID:    row.ID,
		Votes: model.Tally{A: row.VotesA, B: row.VotesB},
	}, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	c.setAuthHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return usecase_feed.ErrPairNotFound
	default:
		return fmt.Errorf("%w: %d", ErrBadStatus, resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) setAuthHeaders(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
	}
	if c.tokenSource != nil {
		if token := c.tokenSource.AccessToken(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
}
