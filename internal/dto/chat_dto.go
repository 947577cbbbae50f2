package dto

import "time"

type CreateChatRequest struct {
	Topic           string  `json:"topic" validate:"required,min=3,max=50"`
	StartDate       string  `json:"start_date" validate:"required"`
	StartTime       string  `json:"start_time" validate:"required"`
	Duration        int     `json:"duration" validate:"required,gt=0"`
	Repetitive      bool    `json:"repetitive"`
	AgencyIds       []int64 `json:"agency_ids" validate:"required,min=1"`
	MaxParticipants *int    `json:"max_participants,omitempty"`
	HintMessage     string  `json:"hint_message,omitempty"`
}

type UpdateChatRequest struct {
	ChatId    int64  `json:"chat_id" validate:"required,gt=0"`
	Topic     string `json:"topic" validate:"required,min=3,max=50"`
	StartDate string `json:"start_date" validate:"required"`
	StartTime string `json:"start_time" validate:"required"`
	Duration  int    `json:"duration" validate:"required,gt=0"`
}

type ChatResponse struct {
	Id              int64      `json:"id"`
	Topic           string     `json:"topic"`
	StartDate       time.Time  `json:"start_date"`
	Duration        int        `json:"duration"`
	Repetitive      bool       `json:"repetitive"`
	Active          bool       `json:"active"`
	MaxParticipants *int       `json:"max_participants,omitempty"`
	GroupId         string     `json:"group_id,omitempty"`
	OwnerId         string     `json:"owner_id"`
	AgencyIds       []int64    `json:"agency_ids"`
	NextStart       *time.Time `json:"next_start,omitempty"`
}

type CreateChatResponse struct {
	ChatId  int64  `json:"chat_id"`
	GroupId string `json:"group_id,omitempty"`
}

type BanUserRequest struct {
	ChatId     int64  `json:"chat_id" validate:"required,gt=0"`
	ChatUserId string `json:"chat_user_id" validate:"required"`
}
