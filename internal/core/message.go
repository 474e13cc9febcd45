package core

import "time"

// Message is the domain model for a group message as fetched from GroupMe.
type Message struct {
	ID          string
	UserID      string
	Name        string
	Text        string
	CreatedAt   int64
	FavoritedBy []string
}

// Likes returns the number of favorite occurrences, duplicates included.
func (m Message) Likes() int {
	return len(m.FavoritedBy)
}

// Time converts CreatedAt (epoch seconds) to a time.Time.
func (m Message) Time() time.Time {
	return time.Unix(m.CreatedAt, 0)
}

// Member is a user inside a group.
type Member struct {
	UserID   string
	Nickname string
}

// Group is a chat group visible to the access token owner.
type Group struct {
	ID   string
	Name string
}
