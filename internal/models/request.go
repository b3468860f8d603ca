package models

type CreateProjectRequest struct {
	Name        string  `json:"name" binding:"required,max=200" example:"Lake house"`
	Description *string `json:"description,omitempty" binding:"omitempty,max=2000"`
	Style       string  `json:"style" binding:"required" example:"SCANDINAVIAN"`
}

type UpdateProjectRequest struct {
	Name        *string `json:"name,omitempty" binding:"omitempty,min=1,max=200"`
	Description *string `json:"description,omitempty" binding:"omitempty,max=2000"`
	Style       *string `json:"style,omitempty"`
}

type CreateRoomRequest struct {
	Name         string   `json:"name" binding:"required,max=200" example:"Master bedroom"`
	Type         string   `json:"type" binding:"required" example:"BEDROOM"`
	Length       float64  `json:"length" binding:"required,gt=0" example:"4.5"`
	Width        float64  `json:"width" binding:"required,gt=0" example:"3.2"`
	Height       float64  `json:"height" binding:"required,gt=0" example:"2.7"`
	Materials    []string `json:"materials,omitempty" binding:"omitempty,max=20,dive,min=1,max=100"`
	AmbientColor *string  `json:"ambientColor,omitempty" binding:"omitempty,max=100"`
}

type UpdateRoomRequest struct {
	Name         *string   `json:"name,omitempty" binding:"omitempty,min=1,max=200"`
	Type         *string   `json:"type,omitempty"`
	Length       *float64  `json:"length,omitempty" binding:"omitempty,gt=0"`
	Width        *float64  `json:"width,omitempty" binding:"omitempty,gt=0"`
	Height       *float64  `json:"height,omitempty" binding:"omitempty,gt=0"`
	Materials    *[]string `json:"materials,omitempty" binding:"omitempty,max=20,dive,min=1,max=100"`
	AmbientColor *string   `json:"ambientColor,omitempty" binding:"omitempty,max=100"`
}

type CreateDesignRequest struct {
	RoomID       string  `json:"roomId" example:"5b0c1f0e-9a51-4c8e-8f0d-0f3f1f6f7c11"`
	CustomPrompt *string `json:"customPrompt,omitempty" binding:"omitempty,max=4000"`
	AIProvider   *string `json:"aiProvider,omitempty" example:"OPENAI"`
}

type RegenerateDesignRequest struct {
	CustomPrompt *string `json:"customPrompt,omitempty" binding:"omitempty,max=4000"`
	AIProvider   *string `json:"aiProvider,omitempty" example:"REPLICATE"`
}

type PageQuery struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

type DesignListQuery struct {
	PageQuery
	RoomID     string `form:"roomId"`
	Status     string `form:"status"`
	AIProvider string `form:"aiProvider"`
}
