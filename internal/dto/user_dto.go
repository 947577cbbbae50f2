package dto

type RegisterUserRequest struct {
	Username         string `json:"username" validate:"required,min=5,max=30"`
	Email            string `json:"email,omitempty" validate:"omitempty,email"`
	Password         string `json:"password" validate:"required,min=8"`
	AgencyId         int64  `json:"agency_id" validate:"required,gt=0"`
	ConsultingTypeId int    `json:"consulting_type_id" validate:"gte=0"`
	Postcode         string `json:"postcode" validate:"required,min=3,max=5"`
	LanguageCode     string `json:"language_code,omitempty"`
	TermsAccepted    bool   `json:"terms_accepted" validate:"required,eq=true"`
}

type RegisterAnonymousRequest struct {
	ConsultingTypeId int `json:"consulting_type_id" validate:"gte=0"`
}

type RegisterResponse struct {
	UserId    string `json:"user_id"`
	SessionId int64  `json:"session_id"`
	Username  string `json:"username"`
}
