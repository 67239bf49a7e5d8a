package api

import "github.com/google/uuid"

type PageResponse struct {
	Slug             string                 `json:"slug"`
	OwnerName        string                 `json:"owner_name"`
	MinLeadTimeHours int                    `json:"min_lead_time_hours"`
	Timezone         string                 `json:"timezone"`
	Days             map[string]DayResponse `json:"days"`
}

type DayResponse struct {
	Enabled bool   `json:"enabled"`
	Start   string `json:"start,omitempty"`
	End     string `json:"end,omitempty"`
}

type DatesResponse struct {
	Dates []string `json:"dates"`
}

type SlotsResponse struct {
	Date  string   `json:"date"`
	Slots []string `json:"slots"`
}

type CreateBookingRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Date      string `json:"date"`  // ISO-8601 calendar date
	Start     string `json:"start"` // "HH:MM"
}

type BookingResponse struct {
	AppointmentID uuid.UUID `json:"appointment_id"`
	JoinURL       string    `json:"join_url"`
	Date          string    `json:"date"`
	Time          string    `json:"time"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
