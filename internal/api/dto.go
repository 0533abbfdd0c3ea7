package api

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/tavle/internal/index"
)

// CreateProjectRequest is the request body for creating a project.
type CreateProjectRequest struct {
	Title       string `json:"title" example:"Thesis" validate:"required"`
	Description string `json:"description,omitempty" example:"Research notes"`
	Color       string `json:"color,omitempty" example:"#7c3aed"`
}

// Validate checks request field constraints.
func (r CreateProjectRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Description, validation.Length(0, 4000)),
	)
}

// UpdateProjectRequest is the request body for updating a project.
type UpdateProjectRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"`
}

// Validate checks request field constraints.
func (r UpdateProjectRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Description, validation.Length(0, 4000)),
	)
}

// CreateBoardRequest is the request body for creating a board.
type CreateBoardRequest struct {
	ProjectID     string `json:"project_id" validate:"required"`
	ParentBoardID string `json:"parent_board_id,omitempty"`
	Title         string `json:"title" validate:"required"`
	Position      int    `json:"position"`
}

// Validate checks request field constraints.
func (r CreateBoardRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ProjectID, validation.Required),
		validation.Field(&r.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Position, validation.Min(0)),
	)
}

// UpdateBoardRequest is the request body for updating a board's mutable fields.
type UpdateBoardRequest struct {
	Title         string `json:"title" validate:"required"`
	ParentBoardID string `json:"parent_board_id,omitempty"`
	Position      int    `json:"position"`
}

// Validate checks request field constraints.
func (r UpdateBoardRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Position, validation.Min(0)),
	)
}

// BoardSnapshotRequest carries an opaque serialized canvas state.
type BoardSnapshotRequest struct {
	Snapshot string `json:"snapshot" validate:"required"`
}

// Validate checks request field constraints.
func (r BoardSnapshotRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Snapshot, validation.Required),
	)
}

// CreateCardRequest is the request body for creating a card.
type CreateCardRequest struct {
	Title   string   `json:"title,omitempty"`
	Content string   `json:"content" validate:"required"`
	Color   string   `json:"color,omitempty"`
	Hidden  bool     `json:"hidden"`
	Tags    []string `json:"tags,omitempty"`
}

// Validate checks request field constraints.
func (r CreateCardRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Content, validation.Required),
		validation.Field(&r.Title, validation.Length(0, 500)),
	)
}

// UpdateCardRequest is the request body for updating a card.
type UpdateCardRequest struct {
	Title   string   `json:"title,omitempty"`
	Content string   `json:"content" validate:"required"`
	Color   string   `json:"color,omitempty"`
	Hidden  bool     `json:"hidden"`
	Tags    []string `json:"tags,omitempty"`
}

// Validate checks request field constraints.
func (r UpdateCardRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Content, validation.Required),
		validation.Field(&r.Title, validation.Length(0, 500)),
	)
}

// TagRequest is the request body for creating or updating a tag.
type TagRequest struct {
	Name     string `json:"name" validate:"required"`
	Color    string `json:"color,omitempty"`
	Position int    `json:"position"`
}

// Validate checks request field constraints.
func (r TagRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Position, validation.Min(0)),
	)
}

// JournalRequest is the request body for writing a journal entry.
// The day is taken from the URL.
type JournalRequest struct {
	Body string `json:"body" validate:"required"`
}

// Validate checks request field constraints.
func (r JournalRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Body, validation.Required),
	)
}

// ImportAssetRequest asks the server to copy a file from a local path
// into the managed asset directory.
type ImportAssetRequest struct {
	Path     string `json:"path" validate:"required"`
	FileType string `json:"file_type,omitempty" example:"pdf"`
}

// Validate checks request field constraints.
func (r ImportAssetRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Path, validation.Required),
	)
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []index.SearchResult `json:"results" validate:"required"`
	Total   int                  `json:"total" example:"7" validate:"required"`
}

// AssetUploadResponse is returned after a successful asset ingest.
type AssetUploadResponse struct {
	Locator  string `json:"locator" example:"images/1756200000000_diagram.png" validate:"required"`
	Size     int64  `json:"size" example:"12345" validate:"required"`
	Checksum string `json:"checksum" example:"abc123..." validate:"required"`
	URL      string `json:"url" example:"/api/assets/images/1756200000000_diagram.png" validate:"required"`
}

// RebuildResponse reports the result of a full index rebuild.
type RebuildResponse struct {
	Total   int            `json:"total" example:"42" validate:"required"`
	Counts  map[string]int `json:"counts" validate:"required"`
	Skipped []string       `json:"skipped,omitempty"`
}
