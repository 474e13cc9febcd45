// Package stats derives engagement statistics from a group's roster and message history.
//
// All maps are read through accessor methods; unknown user ids read as zero or empty,
// never as an error.
package stats

import (
	"math"
	"sort"

	"github.com/vovakirdan/groupstats/internal/core"
)

// Engine holds the aggregates computed from one roster and one message list.
// It is immutable after New; derived queries are computed on first use and cached.
type Engine struct {
	members  []core.Member
	messages []core.Message

	byAuthor   map[string][]core.Message
	likesGiven map[string]int
	selfLikes  map[string]int
	likeMatrix map[string]map[string]int // liker -> author -> count

	// lazily derived
	messageCounts map[string]int
	likesReceived map[string]int
	ranked        []core.Message
}

// Affinity is how often Liker favorited Author's messages, as a percentage of Author's message count.
type Affinity struct {
	Liker   string
	Author  string
	Likes   int
	Percent float64
}

// New computes every aggregate eagerly. The inputs are copied, favorite lists included;
// later changes to them are not observed.
func New(members []core.Member, messages []core.Message) *Engine {
	e := &Engine{
		members:    append([]core.Member{}, members...),
		messages:   copyMessages(messages),
		byAuthor:   make(map[string][]core.Message, len(members)),
		likesGiven: make(map[string]int),
		selfLikes:  make(map[string]int),
		likeMatrix: make(map[string]map[string]int),
	}
	e.partition()
	e.countLikes()
	return e
}

func copyMessages(messages []core.Message) []core.Message {
	out := make([]core.Message, len(messages))
	for i, msg := range messages {
		msg.FavoritedBy = append([]string{}, msg.FavoritedBy...)
		out[i] = msg
	}
	return out
}

// partition assigns every message to its author, preserving source order.
// Members without messages get an empty list.
func (e *Engine) partition() {
	for _, m := range e.members {
		if _, ok := e.byAuthor[m.UserID]; !ok {
			e.byAuthor[m.UserID] = []core.Message{}
		}
	}
	for _, msg := range e.messages {
		e.byAuthor[msg.UserID] = append(e.byAuthor[msg.UserID], msg)
	}
}

// countLikes walks every favorite occurrence; duplicates in a favorite list count once each.
func (e *Engine) countLikes() {
	for _, msg := range e.messages {
		for _, liker := range msg.FavoritedBy {
			e.likesGiven[liker]++
			if liker == msg.UserID {
				e.selfLikes[liker]++
			}
			row, ok := e.likeMatrix[liker]
			if !ok {
				row = make(map[string]int)
				e.likeMatrix[liker] = row
			}
			row[msg.UserID]++
		}
	}
}

// Members returns the roster in source order.
func (e *Engine) Members() []core.Member {
	return append([]core.Member{}, e.members...)
}

// Messages returns the full history in source order.
func (e *Engine) Messages() []core.Message {
	return append([]core.Message{}, e.messages...)
}

// TotalMessages is the number of messages in the history.
func (e *Engine) TotalMessages() int {
	return len(e.messages)
}

// MessagesBy returns the messages authored by userID in source order.
func (e *Engine) MessagesBy(userID string) []core.Message {
	msgs := e.byAuthor[userID]
	if msgs == nil {
		return []core.Message{}
	}
	return append([]core.Message{}, msgs...)
}

// MessageCountByUserID maps every author and every member to their message count.
func (e *Engine) MessageCountByUserID() map[string]int {
	if e.messageCounts == nil {
		counts := make(map[string]int, len(e.byAuthor))
		for userID, msgs := range e.byAuthor {
			counts[userID] = len(msgs)
		}
		e.messageCounts = counts
	}
	out := make(map[string]int, len(e.messageCounts))
	for k, v := range e.messageCounts {
		out[k] = v
	}
	return out
}

// MessageCount is the number of messages authored by userID.
func (e *Engine) MessageCount(userID string) int {
	return len(e.byAuthor[userID])
}

// LikesGiven is the number of favorites userID handed out across the history.
func (e *Engine) LikesGiven(userID string) int {
	return e.likesGiven[userID]
}

// SelfLikes is the number of times userID favorited their own message.
func (e *Engine) SelfLikes(userID string) int {
	return e.selfLikes[userID]
}

// LikeCell is the number of times liker favorited a message by author.
func (e *Engine) LikeCell(liker, author string) int {
	return e.likeMatrix[liker][author]
}

// LikesReceived is the number of favorite occurrences on userID's messages.
func (e *Engine) LikesReceived(userID string) int {
	if e.likesReceived == nil {
		received := make(map[string]int, len(e.byAuthor))
		for author, msgs := range e.byAuthor {
			total := 0
			for _, msg := range msgs {
				total += msg.Likes()
			}
			received[author] = total
		}
		e.likesReceived = received
	}
	return e.likesReceived[userID]
}

// LikeRatio is likes received per authored message. It returns core.ErrNoData when userID has no messages.
func (e *Engine) LikeRatio(userID string) (float64, error) {
	count := e.MessageCount(userID)
	if count == 0 {
		return 0, core.ErrNoData
	}
	return float64(e.LikesReceived(userID)) / float64(count), nil
}

// TopNByLikes returns up to n messages ordered by favorite count, most liked first.
// Messages with equal counts keep their source order.
func (e *Engine) TopNByLikes(n int) []core.Message {
	if n <= 0 {
		return []core.Message{}
	}
	if e.ranked == nil {
		ranked := append([]core.Message{}, e.messages...)
		sort.SliceStable(ranked, func(i, j int) bool {
			return ranked[i].Likes() > ranked[j].Likes()
		})
		e.ranked = ranked
	}
	if n > len(e.ranked) {
		n = len(e.ranked)
	}
	return append([]core.Message{}, e.ranked[:n]...)
}

// Affinity is LikeCell(liker, author) / MessageCount(author) * 100 rounded to two decimals.
// ok is false when liker never favorited author or author has no messages.
func (e *Engine) Affinity(liker, author string) (percent float64, ok bool) {
	cell := e.LikeCell(liker, author)
	count := e.MessageCount(author)
	if cell == 0 || count == 0 {
		return 0, false
	}
	return round2(float64(cell) / float64(count) * 100), true
}

// AffinitiesOf lists every defined affinity of liker towards roster members, in roster order.
func (e *Engine) AffinitiesOf(liker string) []Affinity {
	out := []Affinity{}
	for _, m := range e.members {
		pct, ok := e.Affinity(liker, m.UserID)
		if !ok {
			continue
		}
		out = append(out, Affinity{
			Liker:   liker,
			Author:  m.UserID,
			Likes:   e.LikeCell(liker, m.UserID),
			Percent: pct,
		})
	}
	return out
}

// TotalAffinity is the share of everyone else's messages that userID favorited, as a percentage
// rounded to two decimals. It returns core.ErrNoData when nobody else posted.
func (e *Engine) TotalAffinity(userID string) (float64, error) {
	others := e.TotalMessages() - e.MessageCount(userID)
	if others <= 0 {
		return 0, core.ErrNoData
	}
	return round2(float64(e.LikesGiven(userID)) / float64(others) * 100), nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
