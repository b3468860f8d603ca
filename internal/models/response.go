package models

import "time"

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}

type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

type PageResponse[T any] struct {
	Items      []T        `json:"items"`
	Pagination Pagination `json:"pagination"`
}

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// NormalizePage clamps page and limit into their accepted ranges.
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return page, limit
}

func NewPagination(page, limit int, total int64) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Pagination{Page: page, Limit: limit, Total: total, TotalPages: totalPages}
}

type ProjectResponse struct {
	ID          string         `json:"id"`
	UserID      string         `json:"userId"`
	Name        string         `json:"name"`
	Description *string        `json:"description,omitempty"`
	Style       string         `json:"style"`
	Rooms       []RoomResponse `json:"rooms,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

func NewProjectResponse(p *Project) ProjectResponse {
	resp := ProjectResponse{
		ID:          p.ID.String(),
		UserID:      p.UserID.String(),
		Name:        p.Name,
		Description: p.Description,
		Style:       p.Style,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	for i := range p.Rooms {
		resp.Rooms = append(resp.Rooms, NewRoomResponse(&p.Rooms[i]))
	}
	return resp
}

type RoomResponse struct {
	ID           string    `json:"id"`
	ProjectID    string    `json:"projectId"`
	Name         string    `json:"name"`
	Type         string    `json:"type"`
	Length       float64   `json:"length"`
	Width        float64   `json:"width"`
	Height       float64   `json:"height"`
	Materials    []string  `json:"materials"`
	AmbientColor *string   `json:"ambientColor,omitempty"`
	ImageURL     *string   `json:"imageUrl,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func NewRoomResponse(r *Room) RoomResponse {
	materials := []string(r.Materials)
	if materials == nil {
		materials = []string{}
	}
	return RoomResponse{
		ID:           r.ID.String(),
		ProjectID:    r.ProjectID.String(),
		Name:         r.Name,
		Type:         r.Type,
		Length:       r.Length,
		Width:        r.Width,
		Height:       r.Height,
		Materials:    materials,
		AmbientColor: r.AmbientColor,
		ImageURL:     r.ImageURL,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

type DesignResponse struct {
	ID             string                 `json:"id"`
	RoomID         string                 `json:"roomId"`
	ImageURL       string                 `json:"imageUrl"`
	Prompt         string                 `json:"prompt"`
	AIProvider     string                 `json:"aiProvider"`
	Status         DesignStatus           `json:"status"`
	Metadata       map[string]interface{} `json:"metadata"`
	ProcessingTime *int64                 `json:"processingTime"`
	Error          *string                `json:"error"`
	CreatedAt      time.Time              `json:"createdAt"`
	UpdatedAt      time.Time              `json:"updatedAt"`
}

func NewDesignResponse(d *Design) DesignResponse {
	metadata := map[string]interface{}(d.Metadata)
	if metadata == nil {
		metadata = map[string]interface{}{}
	}
	return DesignResponse{
		ID:             d.ID.String(),
		RoomID:         d.RoomID.String(),
		ImageURL:       d.ImageURL,
		Prompt:         d.Prompt,
		AIProvider:     d.AIProvider,
		Status:         d.Status,
		Metadata:       metadata,
		ProcessingTime: d.ProcessingTime,
		Error:          d.ErrorMessage,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

type UploadResponse struct {
	ID        string    `json:"id"`
	RoomID    *string   `json:"roomId,omitempty"`
	Filename  string    `json:"filename"`
	URL       string    `json:"url"`
	Size      int64     `json:"size"`
	MimeType  string    `json:"mimeType"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewUploadResponse(u *Upload) UploadResponse {
	resp := UploadResponse{
		ID:        u.ID.String(),
		Filename:  u.Filename,
		URL:       u.URL,
		Size:      u.Size,
		MimeType:  u.MimeType,
		CreatedAt: u.CreatedAt,
	}
	if u.RoomID != nil {
		roomID := u.RoomID.String()
		resp.RoomID = &roomID
	}
	return resp
}

type CatalogResponse struct {
	Providers       []string `json:"providers"`
	DefaultProvider string   `json:"defaultProvider"`
	RoomTypes       []string `json:"roomTypes"`
	Styles          []string `json:"styles"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
