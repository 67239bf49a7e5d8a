package meeting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client talks to the room-provisioning HTTP API. The create call carries no
// parameters beyond asking for a room; any non-2xx response is a total
// failure of the booking attempt.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type createRoomResponse struct {
	MeetingID string `json:"meetingId"`
	RoomURL   string `json:"roomUrl"`
}

func (c *Client) CreateRoom(ctx context.Context) (Room, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/meetings", bytes.NewReader([]byte("{}")))
	if err != nil {
		return Room{}, fmt.Errorf("build create room request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Room{}, fmt.Errorf("create room: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Room{}, fmt.Errorf("create room: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var out createRoomResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Room{}, fmt.Errorf("decode create room response: %w", err)
	}
	if out.RoomURL == "" {
		return Room{}, fmt.Errorf("create room: response missing roomUrl")
	}

	return Room{MeetingID: out.MeetingID, RoomURL: out.RoomURL}, nil
}

func (c *Client) DeleteRoom(ctx context.Context, meetingID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/meetings/"+meetingID, nil)
	if err != nil {
		return fmt.Errorf("build delete room request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("delete room %s: %w", meetingID, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	// 404 means the room is already gone, which is what we wanted.
	if resp.StatusCode != http.StatusNotFound && (resp.StatusCode < 200 || resp.StatusCode > 299) {
		return fmt.Errorf("delete room %s: unexpected status %d", meetingID, resp.StatusCode)
	}

	return nil
}
