package dto

import "time"

type ClaimEnquiryRequest struct {
	SessionId int64 `json:"session_id" validate:"required,gt=0"`
}

type AssignSessionRequest struct {
	SessionId    int64  `json:"session_id" validate:"required,gt=0"`
	ConsultantId string `json:"consultant_id" validate:"required"`
}

type SubmitEnquiryRequest struct {
	SessionId int64 `json:"session_id" validate:"required,gt=0"`
}

type UpdateGroupKeyRequest struct {
	SessionId int64  `json:"session_id" validate:"required,gt=0"`
	Key       string `json:"key" validate:"required"`
}

type SessionResponse struct {
	Id               int64      `json:"id"`
	UserId           string     `json:"user_id"`
	ConsultantId     *string    `json:"consultant_id,omitempty"`
	ConsultingTypeId int        `json:"consulting_type_id"`
	RegistrationType string     `json:"registration_type"`
	Postcode         string     `json:"postcode"`
	AgencyId         *int64     `json:"agency_id,omitempty"`
	Status           string     `json:"status"`
	TeamSession      bool       `json:"team_session"`
	GroupId          string     `json:"group_id,omitempty"`
	FeedbackGroupId  string     `json:"feedback_group_id,omitempty"`
	MessageDate      *time.Time `json:"message_date,omitempty"`
	CreateDate       time.Time  `json:"create_date"`
}

type EnquiryListResponse struct {
	Sessions []SessionResponse `json:"sessions"`
	Total    int64             `json:"total"`
}
