package dto

// EnquiryNotificationMessage travels over the in-process pipeline from
// the registration/enquiry flow to the consumer that fans the
// notification out to consultants.
type EnquiryNotificationMessage struct {
	SessionId int64  `json:"session_id"`
	AgencyId  int64  `json:"agency_id"`
	TenantId  int64  `json:"tenant_id"`
	Username  string `json:"username"`
}

// LiveNotification is pushed to connected consultants over websocket.
type LiveNotification struct {
	Type      string `json:"type"`
	SessionId int64  `json:"session_id,omitempty"`
	ChatId    int64  `json:"chat_id,omitempty"`
	Message   string `json:"message"`
}
