package calendar

import (
	"context"
	"net/http"
	"time"

	"calbot/models"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// SlotFetcher lists bookable windows on the scheduling API.
type SlotFetcher interface {
	// SlotsForDate returns at most three choices for one calendar day. A
	// non-success API response yields an empty result and no error.
	SlotsForDate(ctx context.Context, day time.Time) (models.SlotChoices, error)
	// FindNextAvailable scans the days after from, up to the booking horizon.
	FindNextAvailable(ctx context.Context, from time.Time) (time.Time, models.SlotChoices, bool, error)
}

// Booker submits a confirmed booking.
type Booker interface {
	Book(ctx context.Context, name, email, isoStart string) (*models.Confirmation, error)
}

// Options configures a Client.
type Options struct {
	BaseURL           string
	APIKey            string
	EventTypeID       int
	Location          *time.Location
	HorizonDays       int
	RequestsPerSecond float64
	HTTPClient        *http.Client
	Logger            *zap.Logger
	Now               func() time.Time
}

// Client talks to the Cal.com v2 API and implements SlotFetcher and Booker.
type Client struct {
	baseURL     string
	apiKey      string
	eventTypeID int
	loc         *time.Location
	horizonDays int
	http        *http.Client
	limiter     *rate.Limiter
	logger      *zap.Logger
	now         func() time.Time
}

func NewClient(opts Options) *Client {
	c := &Client{
		baseURL:     opts.BaseURL,
		apiKey:      opts.APIKey,
		eventTypeID: opts.EventTypeID,
		loc:         opts.Location,
		horizonDays: opts.HorizonDays,
		http:        opts.HTTPClient,
		logger:      opts.Logger,
		now:         opts.Now,
	}
	if c.loc == nil {
		c.loc = time.UTC
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: 10 * time.Second}
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	if c.now == nil {
		c.now = time.Now
	}
	if opts.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}
	return c
}

var (
	_ SlotFetcher = (*Client)(nil)
	_ Booker      = (*Client)(nil)
)
