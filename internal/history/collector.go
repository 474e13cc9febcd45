// Package history walks a group's message history backwards page by page.
package history

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/groupstats/internal/core"
)

// PageSize is the number of messages requested per page; GroupMe caps limit at 100.
const PageSize = 100

// PageFetcher returns one page of messages older than beforeID, newest first.
type PageFetcher interface {
	Messages(ctx context.Context, groupID string, limit int, beforeID string) ([]core.Message, error)
}

// StopReason tells why collection ended.
type StopReason int

const (
	// StopTargetReached means at least the requested number of messages was collected.
	StopTargetReached StopReason = iota
	// StopExhausted means the source returned an empty page.
	StopExhausted
	// StopFailed means a page request failed and the result is partial.
	StopFailed
	// StopStalled means the source returned a page whose last id was already used as a cursor.
	StopStalled
)

func (r StopReason) String() string {
	switch r {
	case StopTargetReached:
		return "target_reached"
	case StopExhausted:
		return "exhausted"
	case StopFailed:
		return "failed"
	case StopStalled:
		return "stalled"
	default:
		return "unknown"
	}
}

// History is the collected message list, newest to oldest, as delivered by the source.
type History struct {
	Messages []core.Message
	Pages    int
	Stop     StopReason
	Err      error // last fetch error when Stop is StopFailed
}

// Partial reports whether collection ended before the target or the end of history.
func (h History) Partial() bool {
	return h.Stop == StopFailed || h.Stop == StopStalled
}

// Collector accumulates pages from a PageFetcher.
type Collector struct {
	fetcher PageFetcher
	log     *zerolog.Logger
}

// NewCollector constructs a collector. A nil logger disables logging.
func NewCollector(fetcher PageFetcher, logger *zerolog.Logger) *Collector {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Collector{fetcher: fetcher, log: logger}
}

// outcome is the result of one page request: either a page or a failure.
type outcome struct {
	page []core.Message
	err  error
}

func (c *Collector) fetch(ctx context.Context, groupID, cursor string) outcome {
	if err := ctx.Err(); err != nil {
		return outcome{err: err}
	}
	page, err := c.fetcher.Messages(ctx, groupID, PageSize, cursor)
	if err != nil {
		return outcome{err: err}
	}
	return outcome{page: page}
}

// Collect gathers at least min(target, available) messages of groupID, newest first.
// It never fails: any fetch error stops the walk and the messages gathered so far are returned.
// The result may exceed target by less than one page.
func (c *Collector) Collect(ctx context.Context, groupID string, target int) History {
	h := History{Messages: []core.Message{}, Stop: StopTargetReached}
	cursor := ""
	used := make(map[string]struct{})

	for len(h.Messages) < target {
		used[cursor] = struct{}{}
		res := c.fetch(ctx, groupID, cursor)
		if res.err != nil {
			h.Stop = StopFailed
			h.Err = res.err
			c.log.Warn().
				Err(res.err).
				Str("group_id", groupID).
				Str("cursor", cursor).
				Int("fetched", len(h.Messages)).
				Msg("message history incomplete, continuing with partial result")
			break
		}

		h.Pages++
		if len(res.page) == 0 {
			h.Stop = StopExhausted
			break
		}
		h.Messages = append(h.Messages, res.page...)

		next := h.Messages[len(h.Messages)-1].ID
		c.log.Debug().
			Str("group_id", groupID).
			Int("page", h.Pages).
			Int("fetched", len(h.Messages)).
			Str("cursor", next).
			Msg("page collected")
		if _, ok := used[next]; ok {
			h.Stop = StopStalled
			c.log.Warn().Str("group_id", groupID).Str("cursor", next).Msg("cursor already requested")
			break
		}
		cursor = next
	}

	return h
}
