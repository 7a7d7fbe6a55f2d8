package observer

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/magefree/mage-rules-go/internal/game"
)

func sampleSnapshot(seq uint64) game.Snapshot {
	return game.Snapshot{
		GameID:       "test",
		Sequence:     seq,
		Turn:         3,
		Step:         "MAIN1",
		ActivePlayer: 1,
		Players: []game.PlayerSnapshot{
			{ID: 1, Name: "Alice", Life: 17, Mana: []string{"R"}, DeckSize: 30},
			{ID: 2, Name: "Bob", Life: 20, DeckSize: 31, Lost: true, LossReason: game.RuleCouldntDraw},
		},
		Battlefield: []game.PermanentSnapshot{
			{ID: 1, Name: "Mountain", Controller: 1, Types: "Land", Tapped: true},
			{ID: 2, Name: "Goblin Assailant", Controller: 1, Types: "Creature", Creature: true, Power: 2, Toughness: 2, Damage: 1},
			{ID: 3, Name: "Grizzly Bears", Controller: 2, Types: "Creature", Creature: true, Power: 3, Toughness: 3,
				Counters: map[string]int{"+1/+1": 1}},
		},
		Stack:  []game.StackSnapshot{{Card: 9, Controller: 1, Description: "Lightning Bolt"}},
		Result: &game.Result{Winner: 1, WinnerName: "Alice", Turn: 3},
	}
}

func TestFeedKeepsLatest(t *testing.T) {
	feed := NewFeed()
	_, ok := feed.Latest()
	assert.False(t, ok)

	for i := uint64(1); i <= 5; i++ {
		feed.Publish(sampleSnapshot(i))
	}

	latest, ok := feed.Latest()
	require.True(t, ok)
	assert.Equal(t, uint64(5), latest.Sequence)

	select {
	case s := <-feed.Updates():
		assert.Equal(t, uint64(5), s.Sequence, "older snapshots are overwritten")
	default:
		t.Fatal("expected a pending update")
	}
	select {
	case s := <-feed.Updates():
		t.Fatalf("unexpected second update %d", s.Sequence)
	default:
	}
}

func TestOriginAllowed(t *testing.T) {
	allowed := []string{"http://localhost:*", "https://mage.example.org"}
	assert.True(t, originAllowed(allowed, "http://localhost:3000"))
	assert.True(t, originAllowed(allowed, "https://mage.example.org"))
	assert.False(t, originAllowed(allowed, "https://evil.example.com"))
	assert.True(t, originAllowed([]string{"*"}, "https://anything"))
	assert.False(t, originAllowed(nil, "http://localhost:3000"))
}

func TestRouter(t *testing.T) {
	feed := NewFeed()
	router := NewRouter(RouterConfig{Feed: feed, Logger: zaptest.NewLogger(t)})

	get := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec
	}

	t.Run("healthz", func(t *testing.T) {
		rec := get("/healthz")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "OK", rec.Body.String())
	})

	t.Run("no snapshot yet", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, get("/snapshot").Code)
		assert.Equal(t, http.StatusNotFound, get("/board.png").Code)
	})

	feed.Publish(sampleSnapshot(7))

	t.Run("snapshot", func(t *testing.T) {
		rec := get("/snapshot")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var got game.Snapshot
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, uint64(7), got.Sequence)
		require.Len(t, got.Players, 2)
		assert.Equal(t, "Alice", got.Players[0].Name)
		require.NotNil(t, got.Result)
		assert.Equal(t, "Alice", got.Result.WinnerName)
	})

	t.Run("board", func(t *testing.T) {
		rec := get("/board.png")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))

		img, err := png.Decode(rec.Body)
		require.NoError(t, err)
		assert.Equal(t, boardWidth, img.Bounds().Dx())
		assert.Equal(t, int(headerHeight+2*bandHeight+margin), img.Bounds().Dy())
	})

	t.Run("metrics", func(t *testing.T) {
		rec := get("/metrics")
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRenderBoardEmptyGame(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderBoard(&buf, game.Snapshot{Turn: 1, Step: "UNTAP"}))
	_, err := png.Decode(&buf)
	require.NoError(t, err)
}

func startHub(t *testing.T, cfg Config) (*Feed, *Hub, *httptest.Server) {
	t.Helper()
	feed := NewFeed()
	hub := NewHub(feed, cfg, zaptest.NewLogger(t))
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	srv := httptest.NewServer(NewRouter(RouterConfig{Feed: feed, Hub: hub, AllowedOrigins: cfg.AllowedOrigins}))
	t.Cleanup(srv.Close)
	return feed, hub, srv
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func TestHubStreamsSnapshots(t *testing.T) {
	feed, hub, srv := startHub(t, Config{AllowedOrigins: []string{"*"}})

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	feed.Publish(sampleSnapshot(11))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "game:snapshot", msg.Event)
	assert.Equal(t, uint64(11), msg.Data.Sequence)

	conn.Close()
	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 10*time.Millisecond)
}

func TestHubSendsLatestOnConnect(t *testing.T) {
	feed, hub, srv := startHub(t, Config{})

	feed.Publish(sampleSnapshot(3))
	require.Eventually(t, func() bool {
		hub.mu.RLock()
		defer hub.mu.RUnlock()
		return hub.latest != nil
	}, time.Second, 10*time.Millisecond)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, uint64(3), msg.Data.Sequence)
}

func TestHubRejectsForeignOrigin(t *testing.T) {
	_, _, srv := startHub(t, Config{AllowedOrigins: []string{"http://localhost:*"}})

	header := http.Header{"Origin": []string{"https://evil.example.com"}}
	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv), header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestHubLimitsClients(t *testing.T) {
	_, hub, srv := startHub(t, Config{MaxClients: 1})

	first, _, err := websocket.DefaultDialer.Dial(wsURL(srv), nil)
	require.NoError(t, err)
	defer first.Close()
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv), nil)
	require.ErrorIs(t, err, websocket.ErrBadHandshake)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestHubReservesSlotsBeforeUpgrade(t *testing.T) {
	hub := NewHub(NewFeed(), Config{MaxClients: 2}, zaptest.NewLogger(t))

	require.NoError(t, hub.reserve())
	require.NoError(t, hub.reserve())
	assert.ErrorIs(t, hub.reserve(), ErrTooManyObservers, "upgrades in progress count against the limit")
	assert.Equal(t, 0, hub.ClientCount())

	hub.release()
	require.NoError(t, hub.reserve())
	assert.ErrorIs(t, hub.reserve(), ErrTooManyObservers)

	c := &observerClient{addr: "test", slot: make(chan []byte, 1), done: make(chan struct{})}
	hub.register(c)
	assert.Equal(t, 1, hub.ClientCount())
	assert.ErrorIs(t, hub.reserve(), ErrTooManyObservers, "a registered client keeps its slot")
}

func TestHubUnlimitedClients(t *testing.T) {
	hub := NewHub(NewFeed(), Config{}, zaptest.NewLogger(t))
	for i := 0; i < 100; i++ {
		require.NoError(t, hub.reserve())
	}
}
