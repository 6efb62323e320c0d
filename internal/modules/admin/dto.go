package admin

type LoginRequest struct {
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
}

type BlockDateRequest struct {
	Date   string `json:"date" binding:"required" validate:"isodate"`
	Reason string `json:"reason" validate:"max=255"`
}

type GenerateSlotsRequest struct {
	StartDate string `json:"start_date" binding:"required" validate:"isodate"`
	EndDate   string `json:"end_date" binding:"required" validate:"isodate"`
}

type ReleaseSlotRequest struct {
	Date string `json:"date" binding:"required" validate:"isodate"`
	Time string `json:"time" binding:"required" validate:"clock"`
}

type ResyncRequest struct {
	From string `json:"from" validate:"omitempty,isodate"`
}
