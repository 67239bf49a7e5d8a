package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shamoevthomas/CloseOS-sub001/internal/availability"
	"github.com/shamoevthomas/CloseOS-sub001/internal/booking"
)

type fakePages struct {
	pages map[string]*availability.Template
}

func (f *fakePages) GetPageBySlug(_ context.Context, slug string) (*availability.Template, error) {
	page, ok := f.pages[slug]
	if !ok {
		return nil, availability.ErrPageNotFound
	}
	return page, nil
}

type fakeBookings struct {
	err  error
	last booking.Request
}

func (f *fakeBookings) Book(_ context.Context, _ *availability.Template, req booking.Request) (*booking.Confirmation, error) {
	f.last = req
	if f.err != nil {
		return nil, f.err
	}
	return &booking.Confirmation{
		Appointment: &booking.Appointment{
			ID:        uuid.MustParse("5bff1f66-5c6e-4f86-9a9b-111111111111"),
			Date:      req.Date.Format("2006-01-02"),
			TimeRange: req.Start + " - 09:30",
		},
		JoinURL: "https://rooms.example.com/abc",
	}, nil
}

func testServer(t *testing.T, bookings *fakeBookings) *httptest.Server {
	t.Helper()

	pages := &fakePages{pages: map[string]*availability.Template{
		"ada": {
			Slug:             "ada",
			OwnerID:          uuid.New(),
			OwnerName:        "Ada Lovelace",
			OwnerEmail:       "ada@example.com",
			MinLeadTimeHours: 24,
			Days: map[string]availability.DayRule{
				"monday": {Enabled: true, Range: availability.TimeRange{Start: "09:00", End: "17:00"}},
				"friday": {Enabled: false},
			},
		},
	}}

	srv := httptest.NewServer(NewRouter(RouterConfig{
		Pages:    pages,
		Bookings: bookings,
		Env:      "test",
		Version:  "test",
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGetPage(t *testing.T) {
	srv := testServer(t, &fakeBookings{})

	resp, err := http.Get(srv.URL + "/pages/ada/")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var page PageResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
	assert.Equal(t, "ada", page.Slug)
	assert.Equal(t, 24, page.MinLeadTimeHours)
	assert.Equal(t, DayResponse{Enabled: true, Start: "09:00", End: "17:00"}, page.Days["monday"])
	assert.False(t, page.Days["friday"].Enabled)
}

func TestUnknownSlugIs404(t *testing.T) {
	srv := testServer(t, &fakeBookings{})

	for _, path := range []string{"/pages/nobody/", "/pages/nobody/dates", "/pages/nobody/slots?date=2025-06-09"} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
	}
}

func TestListDates(t *testing.T) {
	srv := testServer(t, &fakeBookings{})

	resp, err := http.Get(srv.URL + "/pages/ada/dates")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out DatesResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.LessOrEqual(t, len(out.Dates), 12)
	for _, d := range out.Dates {
		assert.Len(t, d, 10)
	}
}

func TestListSlots(t *testing.T) {
	srv := testServer(t, &fakeBookings{})

	// Disabled weekday: an empty list, not an error. 2030-06-07 is a Friday.
	resp, err := http.Get(srv.URL + "/pages/ada/slots?date=2030-06-07")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out SlotsResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, []string{}, out.Slots)
}

func TestListSlotsFarFutureMonday(t *testing.T) {
	srv := testServer(t, &fakeBookings{})

	// 2030-06-03 is a Monday comfortably past any lead time.
	resp, err := http.Get(srv.URL + "/pages/ada/slots?date=2030-06-03")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out SlotsResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Len(t, out.Slots, 16)
	assert.Equal(t, "09:00", out.Slots[0])
	assert.Equal(t, "16:30", out.Slots[15])
}

func TestListSlotsBadDate(t *testing.T) {
	srv := testServer(t, &fakeBookings{})

	resp, err := http.Get(srv.URL + "/pages/ada/slots?date=junk")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func postBooking(t *testing.T, srv *httptest.Server, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(srv.URL+"/pages/ada/bookings", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	return resp
}

const validBookingBody = `{
	"first_name": "Grace",
	"last_name": "Hopper",
	"email": "grace@example.com",
	"phone": "+1 555 0100",
	"date": "2030-06-03",
	"start": "09:00"
}`

func TestCreateBooking(t *testing.T) {
	bookings := &fakeBookings{}
	srv := testServer(t, bookings)

	resp := postBooking(t, srv, validBookingBody)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var out BookingResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "https://rooms.example.com/abc", out.JoinURL)
	assert.Equal(t, "2030-06-03", out.Date)
	assert.Equal(t, "09:00 - 09:30", out.Time)

	assert.Equal(t, "Grace", bookings.last.Visitor.FirstName)
	assert.Equal(t, "09:00", bookings.last.Start)
}

func TestCreateBookingErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", booking.ErrInvalidRequest, http.StatusBadRequest, "invalid_request"},
		{"conflict", booking.ErrSlotAlreadyBooked, http.StatusConflict, "slot_already_booked"},
		{"being booked", booking.ErrSlotBeingBooked, http.StatusConflict, "slot_being_booked"},
		{"room down", booking.ErrRoomProvisioning, http.StatusBadGateway, "room_unavailable"},
		{"persistence", errors.New("write failed"), http.StatusInternalServerError, "booking_failed"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := testServer(t, &fakeBookings{err: tc.err})

			resp := postBooking(t, srv, validBookingBody)
			defer resp.Body.Close()
			assert.Equal(t, tc.wantStatus, resp.StatusCode)

			var out ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
			assert.Equal(t, tc.wantCode, out.Error)
		})
	}
}

func TestCreateBookingBadBody(t *testing.T) {
	srv := testServer(t, &fakeBookings{})

	resp := postBooking(t, srv, "{not json")
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = postBooking(t, srv, `{"first_name":"Grace","date":"junk"}`)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
