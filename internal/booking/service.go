package booking

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/shamoevthomas/CloseOS-sub001/internal/availability"
	"github.com/shamoevthomas/CloseOS-sub001/internal/config"
	"github.com/shamoevthomas/CloseOS-sub001/internal/meeting"
	"github.com/shamoevthomas/CloseOS-sub001/internal/notify"
	"github.com/shamoevthomas/CloseOS-sub001/internal/redisclient"
)

var (
	ErrInvalidRequest    = errors.New("invalid booking request")
	ErrSlotAlreadyBooked = errors.New("slot already has a scheduled appointment")
	ErrSlotBeingBooked   = errors.New("slot is currently being booked, please retry")
	ErrRoomProvisioning  = errors.New("could not provision a meeting room")
)

type Service struct {
	repo     Repository
	locker   redisclient.Locker
	rooms    meeting.Provisioner
	mail     notify.Sender
	composer *notify.Composer
	cfg      config.Config
}

func NewService(repo Repository, locker redisclient.Locker, rooms meeting.Provisioner, mail notify.Sender, composer *notify.Composer, cfg config.Config) *Service {
	return &Service{
		repo:     repo,
		locker:   locker,
		rooms:    rooms,
		mail:     mail,
		composer: composer,
		cfg:      cfg,
	}
}

// Book executes the booking transaction for one selected slot:
// provision a room, persist the appointment, notify both parties.
//
// The room/persist critical section runs under a per-slot lock so two
// visitors racing for the same slot cannot both write an appointment; the
// appointments unique index backstops the lock. A persistence failure after
// the room exists triggers a compensating room delete, and the provision
// ledger lets the reaper sweep anything the compensation missed.
// Notification failures are logged and never change the reported outcome.
func (s *Service) Book(ctx context.Context, page *availability.Template, req Request) (*Confirmation, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	endClock, err := availability.SlotEnd(req.Start)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	date := req.Date.Format("2006-01-02")
	timeRange := req.Start + " - " + endClock

	var confirmed *Confirmation

	err = s.locker.WithSlotLock(ctx, page.OwnerID, date, req.Start, func(lockCtx context.Context) error {
		room, err := s.rooms.CreateRoom(lockCtx)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrRoomProvisioning, err)
		}

		prov := &RoomProvision{OwnerID: page.OwnerID, MeetingID: room.MeetingID, RoomURL: room.RoomURL}
		ledgerOK := true
		if err := s.repo.InsertProvision(lockCtx, prov); err != nil {
			// The booking can proceed without the ledger row; the room just
			// loses reaper coverage.
			ledgerOK = false
			log.Printf("provision ledger write failed meeting_id=%s: %v", room.MeetingID, err)
		}

		appt := &Appointment{
			OwnerID:      page.OwnerID,
			Title:        "Video call with " + req.Visitor.FullName(),
			ContactLabel: req.Visitor.FullName(),
			Date:         date,
			TimeRange:    timeRange,
			Kind:         KindVideo,
			Status:       StatusScheduled,
			JoinURL:      room.RoomURL,
			Notes:        visitorNotes(req.Visitor),
		}

		if err := s.repo.InsertAppointment(lockCtx, appt); err != nil {
			s.compensateRoom(ctx, room, prov, ledgerOK)
			if errors.Is(err, ErrAppointmentConflict) {
				return ErrSlotAlreadyBooked
			}
			return fmt.Errorf("persist appointment: %w", err)
		}

		if ledgerOK {
			if err := s.repo.MarkProvisionConsumed(lockCtx, prov.ID); err != nil {
				log.Printf("mark provision consumed failed id=%s: %v", prov.ID, err)
			}
		}

		confirmed = &Confirmation{Appointment: appt, JoinURL: room.RoomURL}
		return nil
	})

	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			return nil, ErrSlotBeingBooked
		}
		return nil, err
	}

	s.dispatchNotifications(ctx, page, req, confirmed)

	return confirmed, nil
}

// compensateRoom deletes a room whose appointment never materialized. Best
// effort: on failure the provision ledger row stays open for the reaper.
func (s *Service) compensateRoom(ctx context.Context, room meeting.Room, prov *RoomProvision, ledgerOK bool) {
	compCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	if err := s.rooms.DeleteRoom(compCtx, room.MeetingID); err != nil {
		log.Printf("compensating room delete failed meeting_id=%s: %v", room.MeetingID, err)
		return
	}

	if ledgerOK {
		if err := s.repo.MarkProvisionReleased(compCtx, prov.ID); err != nil {
			log.Printf("mark provision released failed id=%s: %v", prov.ID, err)
		}
	}
}

// dispatchNotifications sends the visitor and owner messages concurrently.
// Either send failing is logged only; the booking is already reported as
// successful. The sends are detached from the request's cancellation so a
// visitor navigating away does not drop them.
func (s *Service) dispatchNotifications(ctx context.Context, page *availability.Template, req Request, conf *Confirmation) {
	start, err := slotStartInstant(req.Date, req.Start)
	if err != nil {
		log.Printf("notification skipped, bad slot start %q: %v", req.Start, err)
		return
	}

	visitorMsg, ownerMsg, err := s.composer.Compose(notify.Event{
		OwnerName:    page.OwnerName,
		OwnerEmail:   page.OwnerEmail,
		VisitorName:  req.Visitor.FullName(),
		VisitorEmail: req.Visitor.Email,
		Start:        start,
		JoinURL:      conf.JoinURL,
	})
	if err != nil {
		log.Printf("compose notifications failed appointment_id=%s: %v", conf.Appointment.ID, err)
		return
	}

	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	defer cancel()

	var wg sync.WaitGroup
	for _, msg := range []notify.Message{visitorMsg, ownerMsg} {
		wg.Add(1)
		go func(m notify.Message) {
			defer wg.Done()
			if err := s.mail.Send(sendCtx, m); err != nil {
				log.Printf("notification send failed recipient=%s: %v", m.RecipientEmail, err)
			}
		}(msg)
	}
	wg.Wait()
}

// ReapOrphanedRooms deletes rooms that were provisioned but never consumed
// or released, covering crashes between provisioning and compensation.
// Intended to be called by the reaper worker periodically.
func (s *Service) ReapOrphanedRooms(ctx context.Context) error {
	cutoff := time.Now().Add(-s.cfg.ReaperMinAge)

	stale, err := s.repo.FindStaleProvisions(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("find stale provisions: %w", err)
	}

	for _, prov := range stale {
		if err := s.rooms.DeleteRoom(ctx, prov.MeetingID); err != nil {
			log.Printf("reap room delete failed meeting_id=%s: %v", prov.MeetingID, err)
			continue
		}
		if err := s.repo.MarkProvisionReleased(ctx, prov.ID); err != nil && !errors.Is(err, ErrProvisionNotFound) {
			log.Printf("reap mark released failed id=%s: %v", prov.ID, err)
		}
	}

	return nil
}

func validateRequest(req Request) error {
	v := req.Visitor
	switch {
	case strings.TrimSpace(v.FirstName) == "":
		return fmt.Errorf("%w: first name is required", ErrInvalidRequest)
	case strings.TrimSpace(v.LastName) == "":
		return fmt.Errorf("%w: last name is required", ErrInvalidRequest)
	case strings.TrimSpace(v.Email) == "" || !strings.Contains(v.Email, "@"):
		return fmt.Errorf("%w: a valid email is required", ErrInvalidRequest)
	case req.Date.IsZero():
		return fmt.Errorf("%w: date is required", ErrInvalidRequest)
	case req.Start == "":
		return fmt.Errorf("%w: start time is required", ErrInvalidRequest)
	}
	return nil
}

func visitorNotes(v Visitor) string {
	notes := "Booked online. Email: " + v.Email
	if v.Phone != "" {
		notes += ", phone: " + v.Phone
	}
	return notes
}

// slotStartInstant combines a midnight date with an "HH:MM" start into the
// absolute slot start in the date's location.
func slotStartInstant(date time.Time, start string) (time.Time, error) {
	tod, err := time.Parse("15:04", start)
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := date.Date()
	return time.Date(y, m, d, tod.Hour(), tod.Minute(), 0, 0, date.Location()), nil
}
