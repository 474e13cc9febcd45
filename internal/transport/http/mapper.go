package http

import (
	"time"

	"github.com/vovakirdan/groupstats/internal/core"
	"github.com/vovakirdan/groupstats/internal/history"
	"github.com/vovakirdan/groupstats/internal/stats"
)

// GroupResponse represents a group in API responses.
type GroupResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// StatsResponse is the JSON form of a computed report.
type StatsResponse struct {
	GroupID     string                `json:"group_id"`
	Messages    int                   `json:"messages"`
	Pages       int                   `json:"pages"`
	Partial     bool                  `json:"partial"`
	StopReason  string                `json:"stop_reason"`
	Members     []MemberStatsResponse `json:"members"`
	TopMessages []MessageResponse     `json:"top_messages"`
}

// MemberStatsResponse holds one member's numbers. Nil ratios mean no data.
type MemberStatsResponse struct {
	UserID        string             `json:"user_id"`
	Nickname      string             `json:"nickname"`
	Messages      int                `json:"messages"`
	LikesReceived int                `json:"likes_received"`
	LikesGiven    int                `json:"likes_given"`
	SelfLikes     int                `json:"self_likes"`
	LikeRatio     *float64           `json:"like_ratio"`
	TotalAffinity *float64           `json:"total_affinity"`
	Affinities    []AffinityResponse `json:"affinities"`
}

// AffinityResponse is how often the member liked another member's messages.
type AffinityResponse struct {
	UserID   string  `json:"user_id"`
	Nickname string  `json:"nickname"`
	Likes    int     `json:"likes"`
	Percent  float64 `json:"percent"`
}

// MessageResponse represents a message in API responses.
type MessageResponse struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
	Text      string `json:"text"`
	Likes     int    `json:"likes"`
	CreatedAt string `json:"created_at"`
}

func toStatsResponse(groupID string, e *stats.Engine, h history.History, top int) StatsResponse {
	members := e.Members()
	nicknames := make(map[string]string, len(members))
	for _, m := range members {
		if _, ok := nicknames[m.UserID]; !ok {
			nicknames[m.UserID] = m.Nickname
		}
	}

	resp := StatsResponse{
		GroupID:     groupID,
		Messages:    e.TotalMessages(),
		Pages:       h.Pages,
		Partial:     h.Partial(),
		StopReason:  h.Stop.String(),
		Members:     make([]MemberStatsResponse, 0, len(members)),
		TopMessages: []MessageResponse{},
	}

	for _, m := range members {
		ms := MemberStatsResponse{
			UserID:        m.UserID,
			Nickname:      m.Nickname,
			Messages:      e.MessageCount(m.UserID),
			LikesReceived: e.LikesReceived(m.UserID),
			LikesGiven:    e.LikesGiven(m.UserID),
			SelfLikes:     e.SelfLikes(m.UserID),
			Affinities:    []AffinityResponse{},
		}
		if ratio, err := e.LikeRatio(m.UserID); err == nil {
			ms.LikeRatio = &ratio
		}
		if total, err := e.TotalAffinity(m.UserID); err == nil {
			ms.TotalAffinity = &total
		}
		for _, a := range e.AffinitiesOf(m.UserID) {
			ms.Affinities = append(ms.Affinities, AffinityResponse{
				UserID:   a.Author,
				Nickname: nicknames[a.Author],
				Likes:    a.Likes,
				Percent:  a.Percent,
			})
		}
		resp.Members = append(resp.Members, ms)
	}

	for _, msg := range e.TopNByLikes(top) {
		resp.TopMessages = append(resp.TopMessages, toMessageResponse(msg))
	}
	return resp
}

func toMessageResponse(m core.Message) MessageResponse {
	return MessageResponse{
		ID:        m.ID,
		UserID:    m.UserID,
		Name:      m.Name,
		Text:      m.Text,
		Likes:     m.Likes(),
		CreatedAt: m.Time().UTC().Format(time.RFC3339),
	}
}
