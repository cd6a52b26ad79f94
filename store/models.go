package store

import "time"

// Report status values.
const (
	StatusOpen   = "open"
	StatusClosed = "closed"
)

// TombstoneText overwrites title and description when a report is deleted.
const TombstoneText = "[DELETED]"

// Guild holds per-server configuration. Created lazily on first
// configuration command; never deleted.
type Guild struct {
	GuildID           string    `bson:"guild_id"`
	ManagerRoles      []string  `bson:"manager_roles"`
	BugChannel        string    `bson:"bug_channel,omitempty"`
	HighlightsChannel string    `bson:"highlights_channel,omitempty"`
	ReportMessage     string    `bson:"report_message,omitempty"`
	CreatedAt         time.Time `bson:"created_at"`
	UpdatedAt         time.Time `bson:"updated_at"`
}

// Member is one (user, guild) pair, unique on that pair.
type Member struct {
	UserID    string    `bson:"user_id"`
	GuildID   string    `bson:"guild_id"`
	CatPoints int64     `bson:"cat_points"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// Report is a user-submitted bug report. BugID is assigned exactly once
// from the sequence counter and never reused, even after deletion
// (deletion tombstones the record in place).
type Report struct {
	BugID       int64     `bson:"bug_id"`
	UserID      string    `bson:"user_id"`
	Project     string    `bson:"project"`
	Title       string    `bson:"title"`
	Description string    `bson:"description"`
	Status      string    `bson:"status"`
	Sent        bool      `bson:"sent"`
	MessageID   string    `bson:"message_id,omitempty"`
	ThreadID    string    `bson:"thread_id,omitempty"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

// Media is an attachment payload owned by a report.
type Media struct {
	BugID     int64     `bson:"bug_id"`
	UserID    string    `bson:"user_id"`
	MediaType string    `bson:"media_type"` // "image" or "video"
	Extension string    `bson:"extension"`
	Data      []byte    `bson:"data"`
	CreatedAt time.Time `bson:"created_at"`
}
