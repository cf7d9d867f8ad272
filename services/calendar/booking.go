package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"calbot/models"

	"go.uber.org/zap"
)

const (
	defaultMeetingURL = "Will be shared shortly"
	defaultDuration   = 30
	defaultHostName   = "Host"
)

type bookingRequest struct {
	Start       string            `json:"start"`
	EventTypeID int               `json:"eventTypeId"`
	Metadata    map[string]string `json:"metadata"`
	Attendee    attendee          `json:"attendee"`
}

type attendee struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	TimeZone string `json:"timeZone"`
}

type bookingResponse struct {
	Status string `json:"status"`
	Data   struct {
		Start      string `json:"start"`
		MeetingURL string `json:"meetingUrl"`
		Location   string `json:"location"`
		Duration   int    `json:"duration"`
		Hosts      []struct {
			Name string `json:"name"`
		} `json:"hosts"`
	} `json:"data"`
}

// Book submits the booking. Any non-200/201 status is ErrBookingFailed.
// Requests carry no idempotency key, so a retry after a lost response can
// create a second booking.
func (c *Client) Book(ctx context.Context, name, email, isoStart string) (*models.Confirmation, error) {
	payload := bookingRequest{
		Start:       isoStart,
		EventTypeID: c.eventTypeID,
		Metadata:    map[string]string{},
		Attendee:    attendee{Name: name, Email: email, TimeZone: c.loc.String()},
	}

	resp, err := c.do(ctx, http.MethodPost, "/bookings", nil, bookingsAPIVersion, payload)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		c.logger.Warn("cal booking rejected",
			zap.String("start", isoStart),
			zap.Int("status", resp.StatusCode),
			zap.String("body", snippet(resp.Body)),
		)
		return nil, fmt.Errorf("%w: status %d", ErrBookingFailed, resp.StatusCode)
	}

	var parsed bookingResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		// The booking exists server-side; report it with placeholders.
		c.logger.Error("cal booking response unreadable", zap.String("start", isoStart), zap.Error(err))
	}
	return confirmationFrom(parsed), nil
}

func confirmationFrom(r bookingResponse) *models.Confirmation {
	conf := &models.Confirmation{
		MeetingURL: r.Data.MeetingURL,
		Duration:   r.Data.Duration,
		HostName:   defaultHostName,
	}
	if conf.MeetingURL == "" {
		conf.MeetingURL = r.Data.Location
	}
	if conf.MeetingURL == "" {
		conf.MeetingURL = defaultMeetingURL
	}
	if conf.Duration <= 0 {
		conf.Duration = defaultDuration
	}
	if len(r.Data.Hosts) > 0 && r.Data.Hosts[0].Name != "" {
		conf.HostName = r.Data.Hosts[0].Name
	}
	if r.Data.Start != "" {
		if start, err := time.Parse(time.RFC3339, r.Data.Start); err == nil {
			conf.Start = start
		}
	}
	return conf
}
