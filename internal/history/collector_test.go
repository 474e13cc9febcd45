package history

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/vovakirdan/groupstats/internal/core"
)

// fakeSource serves a history of total messages with ids total..1, newest first.
type fakeSource struct {
	total   int
	failAt  int // request number (1-based) that fails; 0 never fails
	stallAt int // request number that repeats the previous page
	cursors []string
	limits  []int
	last    []core.Message
}

var errUpstream = errors.New("upstream unavailable")

func (f *fakeSource) Messages(_ context.Context, _ string, limit int, beforeID string) ([]core.Message, error) {
	f.cursors = append(f.cursors, beforeID)
	f.limits = append(f.limits, limit)
	n := len(f.cursors)

	if n == f.failAt {
		return nil, &core.FetchError{Op: "list messages", Err: errUpstream}
	}
	if n == f.stallAt {
		return f.last, nil
	}

	start := f.total
	if beforeID != "" {
		id, err := strconv.Atoi(beforeID)
		if err != nil {
			return nil, err
		}
		start = id - 1
	}

	page := []core.Message{}
	for id := start; id >= 1 && len(page) < limit; id-- {
		page = append(page, core.Message{ID: strconv.Itoa(id), UserID: "1"})
	}
	f.last = page
	return page, nil
}

func TestCollectReachesTarget(t *testing.T) {
	src := &fakeSource{total: 1000}
	h := NewCollector(src, nil).Collect(context.Background(), "g", 250)

	if len(h.Messages) != 300 {
		t.Fatalf("expected 300 messages (page overshoot), got %d", len(h.Messages))
	}
	if h.Stop != StopTargetReached || h.Partial() {
		t.Fatalf("unexpected stop reason %v", h.Stop)
	}
	if h.Pages != 3 {
		t.Fatalf("expected 3 pages, got %d", h.Pages)
	}
	for _, limit := range src.limits {
		if limit != PageSize {
			t.Fatalf("expected page size %d, got %d", PageSize, limit)
		}
	}
}

func TestCollectCursorAdvancesToLastMessage(t *testing.T) {
	src := &fakeSource{total: 1000}
	h := NewCollector(src, nil).Collect(context.Background(), "g", 300)

	want := []string{"", "901", "801"}
	if len(src.cursors) != len(want) {
		t.Fatalf("expected %d requests, got %d (%v)", len(want), len(src.cursors), src.cursors)
	}
	seen := map[string]bool{}
	for i, c := range src.cursors {
		if c != want[i] {
			t.Errorf("request %d: cursor %q, want %q", i+1, c, want[i])
		}
		if seen[c] {
			t.Errorf("cursor %q requested twice", c)
		}
		seen[c] = true
	}

	for i := 1; i < len(h.Messages); i++ {
		prev, _ := strconv.Atoi(h.Messages[i-1].ID)
		cur, _ := strconv.Atoi(h.Messages[i].ID)
		if cur >= prev {
			t.Fatalf("messages not newest to oldest at %d: %d then %d", i, prev, cur)
		}
	}
}

func TestCollectStopsWhenHistoryExhausted(t *testing.T) {
	src := &fakeSource{total: 150}
	h := NewCollector(src, nil).Collect(context.Background(), "g", 2000)

	if len(h.Messages) != 150 {
		t.Fatalf("expected all 150 messages, got %d", len(h.Messages))
	}
	if h.Stop != StopExhausted {
		t.Fatalf("expected exhausted, got %v", h.Stop)
	}
	if len(src.cursors) != 3 {
		t.Fatalf("expected 3 requests (last one empty), got %d", len(src.cursors))
	}
}

func TestCollectFirstFailureReturnsEmpty(t *testing.T) {
	src := &fakeSource{total: 1000, failAt: 1}
	h := NewCollector(src, nil).Collect(context.Background(), "g", 500)

	if h.Messages == nil || len(h.Messages) != 0 {
		t.Fatalf("expected empty non-nil history, got %v", h.Messages)
	}
	if h.Stop != StopFailed || !h.Partial() {
		t.Fatalf("expected failed stop, got %v", h.Stop)
	}
	if !core.IsFetchError(h.Err) || !errors.Is(h.Err, errUpstream) {
		t.Fatalf("expected fetch error to be kept, got %v", h.Err)
	}
}

func TestCollectMidSequenceFailureKeepsPartial(t *testing.T) {
	src := &fakeSource{total: 1000, failAt: 3}
	h := NewCollector(src, nil).Collect(context.Background(), "g", 500)

	if len(h.Messages) != 200 {
		t.Fatalf("expected 200 messages before failure, got %d", len(h.Messages))
	}
	if h.Stop != StopFailed {
		t.Fatalf("expected failed stop, got %v", h.Stop)
	}
}

func TestCollectStopsWhenCursorStalls(t *testing.T) {
	src := &fakeSource{total: 1000, stallAt: 2}
	h := NewCollector(src, nil).Collect(context.Background(), "g", 1000)

	if h.Stop != StopStalled {
		t.Fatalf("expected stalled stop, got %v", h.Stop)
	}
	if len(src.cursors) != 2 {
		t.Fatalf("expected collection to stop after the repeated page, got %d requests", len(src.cursors))
	}
}

// cyclingSource answers with pages whose last ids cycle through lastIDs.
type cyclingSource struct {
	lastIDs []string
	cursors []string
}

func (c *cyclingSource) Messages(_ context.Context, _ string, _ int, beforeID string) ([]core.Message, error) {
	c.cursors = append(c.cursors, beforeID)
	last := c.lastIDs[(len(c.cursors)-1)%len(c.lastIDs)]
	return []core.Message{{ID: "x" + last, UserID: "1"}, {ID: last, UserID: "1"}}, nil
}

func TestCollectNeverRepeatsCursor(t *testing.T) {
	src := &cyclingSource{lastIDs: []string{"900", "800"}}
	h := NewCollector(src, nil).Collect(context.Background(), "g", 1000)

	if h.Stop != StopStalled {
		t.Fatalf("expected stalled stop, got %v", h.Stop)
	}
	want := []string{"", "900", "800"}
	if len(src.cursors) != len(want) {
		t.Fatalf("cursors = %q, want %q", src.cursors, want)
	}
	seen := make(map[string]bool)
	for i, c := range src.cursors {
		if c != want[i] {
			t.Fatalf("cursors = %q, want %q", src.cursors, want)
		}
		if seen[c] {
			t.Fatalf("cursor %q requested twice", c)
		}
		seen[c] = true
	}
	if len(h.Messages) != 6 {
		t.Fatalf("expected the three delivered pages to be kept, got %d messages", len(h.Messages))
	}
}

func TestCollectZeroTarget(t *testing.T) {
	src := &fakeSource{total: 10}
	h := NewCollector(src, nil).Collect(context.Background(), "g", 0)

	if len(h.Messages) != 0 || len(src.cursors) != 0 {
		t.Fatalf("expected no requests for zero target, got %d messages and %d requests", len(h.Messages), len(src.cursors))
	}
}

func TestCollectCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := &fakeSource{total: 10}
	h := NewCollector(src, nil).Collect(ctx, "g", 10)

	if h.Stop != StopFailed || len(src.cursors) != 0 {
		t.Fatalf("expected immediate stop on canceled context, got %v after %d requests", h.Stop, len(src.cursors))
	}
	if !errors.Is(h.Err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", h.Err)
	}
}

func TestCollectLengthBound(t *testing.T) {
	for _, target := range []int{1, 99, 100, 101, 555} {
		src := &fakeSource{total: 10000}
		h := NewCollector(src, nil).Collect(context.Background(), "g", target)
		if len(h.Messages) < target || len(h.Messages) >= target+PageSize {
			t.Errorf("target %d: got %d messages", target, len(h.Messages))
		}
	}
}
