package http

import (
	"context"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/groupstats/internal/config"
	"github.com/vovakirdan/groupstats/internal/core"
	"github.com/vovakirdan/groupstats/internal/history"
	"github.com/vovakirdan/groupstats/internal/stats"
)

// fakeService serves a fixed roster and history and records requested limits.
type fakeService struct {
	mu       sync.Mutex
	groups   []core.Group
	members  []core.Member
	messages []core.Message
	err      error
	limits   []int
}

func (f *fakeService) Groups(context.Context) ([]core.Group, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.groups, nil
}

func (f *fakeService) Load(_ context.Context, _ string, limit int) (*stats.Engine, history.History, error) {
	f.mu.Lock()
	f.limits = append(f.limits, limit)
	f.mu.Unlock()
	if f.err != nil {
		return nil, history.History{}, f.err
	}
	msgs := f.messages
	if len(msgs) > limit {
		msgs = msgs[:limit]
	}
	h := history.History{Messages: msgs, Pages: 1, Stop: history.StopExhausted}
	return stats.New(f.members, msgs), h, nil
}

func (f *fakeService) calls() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.limits...)
}

func newFixtureService() *fakeService {
	return &fakeService{
		groups: []core.Group{{ID: "10", Name: "Team"}},
		members: []core.Member{
			{UserID: "1", Nickname: "Al"},
			{UserID: "2", Nickname: "Bo"},
		},
		messages: []core.Message{
			{ID: "3", UserID: "1", Name: "Al", Text: "hello", CreatedAt: 1500000000, FavoritedBy: []string{"2", "1"}},
			{ID: "2", UserID: "1", Name: "Al", Text: "again", CreatedAt: 1499999000, FavoritedBy: []string{}},
			{ID: "1", UserID: "1", Name: "Al", Text: "first", CreatedAt: 1499998000, FavoritedBy: []string{"2"}},
		},
	}
}

func newTestServer(t *testing.T, svc StatsService, mutate func(*config.Config)) *httptest.Server {
	t.Helper()

	cfg := config.Default()
	cfg.Addr = ":0"
	cfg.ReadHeaderTimeout = time.Second
	if mutate != nil {
		mutate(&cfg)
	}

	disabledLogger := zerolog.New(nil)
	server := NewServer(svc, &cfg, &disabledLogger)
	ts := httptest.NewServer(server.Handler)
	t.Cleanup(func() {
		ts.Close()
		_ = server.Shutdown(context.Background())
	})
	return ts
}
