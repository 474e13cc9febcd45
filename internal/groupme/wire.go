package groupme

import (
	"encoding/json"

	"github.com/vovakirdan/groupstats/internal/core"
)

// envelope is the wrapper every GroupMe response uses.
type envelope struct {
	Response json.RawMessage `json:"response"`
	Meta     struct {
		Code   int      `json:"code"`
		Errors []string `json:"errors"`
	} `json:"meta"`
}

type wireGroup struct {
	ID      string `json:"id"`
	GroupID string `json:"group_id"`
	Name    string `json:"name"`
}

// Members is a pointer so an absent field can be told apart from an empty roster.
type wireGroupDetail struct {
	Members *[]wireMember `json:"members"`
}

type wireMember struct {
	UserID   string `json:"user_id"`
	Nickname string `json:"nickname"`
}

type wireMessagePage struct {
	Count    int            `json:"count"`
	Messages *[]wireMessage `json:"messages"`
}

type wireMessage struct {
	ID          string   `json:"id"`
	UserID      string   `json:"user_id"`
	Name        string   `json:"name"`
	Text        *string  `json:"text"`
	CreatedAt   int64    `json:"created_at"`
	FavoritedBy []string `json:"favorited_by"`
}

func (m wireMessage) toCore() core.Message {
	msg := core.Message{
		ID:          m.ID,
		UserID:      m.UserID,
		Name:        m.Name,
		CreatedAt:   m.CreatedAt,
		FavoritedBy: m.FavoritedBy,
	}
	if m.Text != nil {
		msg.Text = *m.Text
	}
	if msg.FavoritedBy == nil {
		msg.FavoritedBy = []string{}
	}
	return msg
}
