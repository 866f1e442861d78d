package packets

type SignupRequest struct {
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,min=8"`
	Name     *string `json:"name"`
}

type UpdateProfileRequest struct {
	Email string  `json:"email" binding:"required,email"`
	Name  *string `json:"name"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateLocationRequest struct {
	// pointers so zero coordinates (equator, prime meridian) pass the
	// required binding
	Latitude  *float64 `json:"latitude" binding:"required"`
	Longitude *float64 `json:"longitude" binding:"required"`
	Timezone  string   `json:"timezone"`
	City      string   `json:"city"`
	Country   string   `json:"country"`
}

type ApplySettingsRequest struct {
	Method    string `json:"method" binding:"required"`
	AsrMethod string `json:"asr_method" binding:"required"`
}

type StrictModeRequest struct {
	Enabled bool `json:"enabled"`
}

type ReminderRequest struct {
	Enabled bool `json:"enabled"`
}

type CompletionRequest struct {
	Completed bool `json:"completed"`
}

type TranscriptRequest struct {
	Transcript string `json:"transcript" binding:"required"`
}
