package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/shamoevthomas/CloseOS-sub001/internal/availability"
	"github.com/shamoevthomas/CloseOS-sub001/internal/booking"
	"github.com/shamoevthomas/CloseOS-sub001/internal/redisclient"
)

// BookingService is the slice of the booking orchestrator the handlers need.
type BookingService interface {
	Book(ctx context.Context, page *availability.Template, req booking.Request) (*booking.Confirmation, error)
}

func getPageHandler(pages availability.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, ok := loadPage(w, r, pages)
		if !ok {
			return
		}

		days := make(map[string]DayResponse, len(page.Days))
		for name, rule := range page.Days {
			day := DayResponse{Enabled: rule.Enabled}
			if rule.Enabled {
				day.Start = rule.Range.Start
				day.End = rule.Range.End
			}
			days[name] = day
		}

		writeJSON(w, http.StatusOK, PageResponse{
			Slug:             page.Slug,
			OwnerName:        page.OwnerName,
			MinLeadTimeHours: page.MinLeadTimeHours,
			Timezone:         page.Timezone,
			Days:             days,
		})
	}
}

func listDatesHandler(pages availability.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, ok := loadPage(w, r, pages)
		if !ok {
			return
		}

		dates := availability.CandidateDates(page, time.Now())
		out := make([]string, 0, len(dates))
		for _, d := range dates {
			out = append(out, d.Format("2006-01-02"))
		}

		writeJSON(w, http.StatusOK, DatesResponse{Dates: out})
	}
}

func listSlotsHandler(pages availability.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, ok := loadPage(w, r, pages)
		if !ok {
			return
		}

		date, err := parsePageDate(page, r.URL.Query().Get("date"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
			return
		}

		slots := page.SlotsOn(date, time.Now())
		if slots == nil {
			// A day with nothing offerable is an empty list, not an error.
			slots = []string{}
		}

		writeJSON(w, http.StatusOK, SlotsResponse{
			Date:  date.Format("2006-01-02"),
			Slots: slots,
		})
	}
}

func createBookingHandler(pages availability.Repository, bookings BookingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, ok := loadPage(w, r, pages)
		if !ok {
			return
		}

		var req CreateBookingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		date, err := parsePageDate(page, req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
			return
		}

		conf, err := bookings.Book(r.Context(), page, booking.Request{
			Visitor: booking.Visitor{
				FirstName: req.FirstName,
				LastName:  req.LastName,
				Email:     req.Email,
				Phone:     req.Phone,
			},
			Date:  date,
			Start: req.Start,
		})
		if err != nil {
			handleBookingError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, BookingResponse{
			AppointmentID: conf.Appointment.ID,
			JoinURL:       conf.JoinURL,
			Date:          conf.Appointment.Date,
			Time:          conf.Appointment.TimeRange,
		})
	}
}

func handleBookingError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, booking.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, booking.ErrSlotAlreadyBooked):
		writeError(w, http.StatusConflict, "slot_already_booked", "this slot was just taken, please pick another")
	case errors.Is(err, booking.ErrSlotBeingBooked),
		errors.Is(err, redisclient.ErrLockNotAcquired):
		writeError(w, http.StatusConflict, "slot_being_booked", "this slot is being booked right now, please retry shortly")
	case errors.Is(err, booking.ErrRoomProvisioning):
		writeError(w, http.StatusBadGateway, "room_unavailable", "could not set up the video room, nothing was booked")
	default:
		writeError(w, http.StatusInternalServerError, "booking_failed", "the booking could not be completed")
	}
}

func loadPage(w http.ResponseWriter, r *http.Request, pages availability.Repository) (*availability.Template, bool) {
	slug := chi.URLParam(r, "slug")

	page, err := pages.GetPageBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, availability.ErrPageNotFound) {
			writeError(w, http.StatusNotFound, "page_not_found", "no booking page for this link")
		} else {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		}
		return nil, false
	}

	return page, true
}

func parsePageDate(page *availability.Template, raw string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", raw, page.Location())
}
