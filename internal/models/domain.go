package models

// Project groups boards under a title and optional color theme.
type Project struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"`
	CreatedAt   int64  `json:"created_at"`
	UpdatedAt   int64  `json:"updated_at"`
}

// Board is an infinite canvas inside a project. Snapshot holds the opaque
// serialized canvas state produced by the editor; Tavle never inspects it.
type Board struct {
	ID            string `json:"id"`
	ProjectID     string `json:"project_id"`
	ParentBoardID string `json:"parent_board_id,omitempty"`
	Title         string `json:"title"`
	Position      int    `json:"position"`
	Snapshot      string `json:"snapshot,omitempty"`
	CreatedAt     int64  `json:"created_at"`
	UpdatedAt     int64  `json:"updated_at"`
}

// Card is a rich-text block. Content is an opaque editor document
// (ContentType names the format); WordCount is derived from its plain text.
type Card struct {
	ID          string   `json:"id"`
	Title       string   `json:"title,omitempty"`
	Content     string   `json:"content"`
	ContentType string   `json:"content_type"`
	Color       string   `json:"color,omitempty"`
	Hidden      bool     `json:"hidden"`
	WordCount   int      `json:"word_count"`
	Tags        []string `json:"tags"`
	CreatedAt   int64    `json:"created_at"`
	UpdatedAt   int64    `json:"updated_at"`
}

// Tag is a named label that cards reference by name.
type Tag struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Color     string `json:"color,omitempty"`
	Position  int    `json:"position"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
}

// JournalEntry is a day-keyed free-text note.
type JournalEntry struct {
	ID        string `json:"id"`
	Day       string `json:"day"` // YYYY-MM-DD
	Body      string `json:"body"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
}
