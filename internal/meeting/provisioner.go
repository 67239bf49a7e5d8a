package meeting

import "context"

// Room is a provisioned video meeting room. Only the join URL is embedded in
// the appointment record; MeetingID exists so an orphaned room can be deleted.
type Room struct {
	MeetingID string
	RoomURL   string
}

// Provisioner creates and deletes rooms on the external video service.
type Provisioner interface {
	CreateRoom(ctx context.Context) (Room, error)
	DeleteRoom(ctx context.Context, meetingID string) error
}
