package infra_platform_realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/PraiseKol/crossroads/internal/model"
	usecase_reconcile "github.com/PraiseKol/crossroads/internal/usecase/reconcile"
)

const (
	eventSubscribe = "SUBSCRIBE"
	eventUpdate    = "UPDATE"
)

type event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type subscribePayload struct {
	Table    string `json:"table"`
	Event    string `json:"event"`
	Category string `json:"category,omitempty"`
	Exclude  string `json:"exclude,omitempty"`
}

type updatePayload struct {
	ID     string `json:"id"`
	VotesA int    `json:"votes_a"`
	VotesB int    `json:"votes_b"`
}

// Subscriber dials the platform's change-notification channel and exposes
// tally-affecting UPDATE events on pair rows.
type Subscriber struct {
	wsURL  string
	apiKey string
	dialer *websocket.Dialer
	logger *slog.Logger
}

type SubscriberOption func(*Subscriber)

func WithLogger(logger *slog.Logger) SubscriberOption {
	return func(s *Subscriber) {
		s.logger = logger
	}
}

func WithDialer(d *websocket.Dialer) SubscriberOption {
	return func(s *Subscriber) {
		s.dialer = d
	}
}

func New(wsURL string, apiKey string, opts ...SubscriberOption) *Subscriber {
	s := &Subscriber{
		wsURL:  wsURL,
		apiKey: apiKey,
		dialer: websocket.DefaultDialer,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Stream is one live subscription. The updates channel closes when the
// stream ends; Close must be called to stop receiving events.
type Stream struct {
	conn    *websocket.Conn
	updates chan model.TallyUpdate
	logger  *slog.Logger

	closeOnce sync.Once
}

// Subscribe opens the channel, sends the scope filter and starts the read
// loop. The stream stays open until Close or a transport error.
func (s *Subscriber) Subscribe(ctx context.Context, scope usecase_reconcile.Scope) (usecase_reconcile.UpdateStream, error) {
	header := make(map[string][]string)
	if s.apiKey != "" {
		header["apikey"] = []string{s.apiKey}
	}

	conn, _, err := s.dialer.DialContext(ctx, s.wsURL, header)
	if err != nil {
		return nil, fmt.Errorf("%w:%w", usecase_reconcile.ErrSubscribe, err)
	}

	payload, err := json.Marshal(subscribePayload{
		Table:    "pairs",
		Event:    eventUpdate,
		Category: scope.Category,
		Exclude:  scope.ExcludeID,
	})
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w:%w", usecase_reconcile.ErrSubscribe, err)
	}
	if err := conn.WriteJSON(event{Type: eventSubscribe, Payload: payload}); err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w:%w", usecase_reconcile.ErrSubscribe, err)
	}

	stream := &Stream{
		conn:    conn,
		updates: make(chan model.TallyUpdate, 16),
		logger:  s.logger,
	}
	go stream.readLoop()
	return stream, nil
}

func (st *Stream) Updates() <-chan model.TallyUpdate {
	return st.updates
}

// Close tears the subscription down. Safe to call more than once.
func (st *Stream) Close() error {
	var err error
	st.closeOnce.Do(func() {
		_ = st.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		err = st.conn.Close()
	})
	return err
}

func (st *Stream) readLoop() {
	defer close(st.updates)
	defer st.conn.Close()

	for {
		var ev event
		if err := st.conn.ReadJSON(&ev); err != nil {
			return
		}
		if ev.Type != eventUpdate {
			continue
		}

		var upd updatePayload
		if err := json.Unmarshal(ev.Payload, &upd); err != nil || upd.ID == "" {
			st.logger.Warn("dropping malformed pair update")
			continue
		}

		st.updates <- model.TallyUpdate{
			ID:    upd.ID,
			Votes: model.Tally{A: upd.VotesA, B: upd.VotesB},
		}
	}
}
