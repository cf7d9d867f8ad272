package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"calbot/models"
	"calbot/services/dates"

	"go.uber.org/zap"
)

const slotLabelLayout = "02 Jan, 03:04 PM"

type slotsResponse struct {
	Status string                `json:"status"`
	Data   map[string][]slotItem `json:"data"`
}

type slotItem struct {
	Start string `json:"start"`
}

func (c *Client) SlotsForDate(ctx context.Context, day time.Time) (models.SlotChoices, error) {
	date := dates.ISO(day.In(c.loc))
	query := url.Values{}
	query.Set("eventTypeId", strconv.Itoa(c.eventTypeID))
	query.Set("start", date)
	query.Set("end", date)
	query.Set("timeZone", c.loc.String())
	query.Set("format", "time")

	resp, err := c.do(ctx, http.MethodGet, "/slots", query, slotsAPIVersion, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("cal slots request failed",
			zap.String("date", date),
			zap.Int("status", resp.StatusCode),
			zap.String("body", snippet(resp.Body)),
		)
		return models.SlotChoices{}, nil
	}

	var parsed slotsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode slots for %s: %w", date, err)
	}

	slots := make([]models.Slot, 0, models.MaxSlotChoices)
	for _, item := range parsed.Data[date] {
		if len(slots) == models.MaxSlotChoices {
			break
		}
		start, err := time.Parse(time.RFC3339, item.Start)
		if err != nil {
			c.logger.Warn("skipping slot with unparseable start", zap.String("start", item.Start), zap.Error(err))
			continue
		}
		slots = append(slots, models.Slot{
			IsoStart: item.Start,
			Label:    start.In(c.loc).Format(slotLabelLayout),
		})
	}
	c.logger.Debug("cal slots fetched", zap.String("date", date), zap.Int("count", len(slots)))
	return models.NewSlotChoices(slots), nil
}

// FindNextAvailable never returns from itself: the scan starts the day after.
func (c *Client) FindNextAvailable(ctx context.Context, from time.Time) (time.Time, models.SlotChoices, bool, error) {
	today := dates.StartOfDay(c.now().In(c.loc))
	last := dates.HorizonEnd(today, c.horizonDays)

	for day := dates.StartOfDay(from.In(c.loc)).AddDate(0, 0, 1); !day.After(last); day = day.AddDate(0, 0, 1) {
		choices, err := c.SlotsForDate(ctx, day)
		if err != nil {
			return time.Time{}, nil, false, err
		}
		if len(choices) > 0 {
			return day, choices, true, nil
		}
	}
	return time.Time{}, models.SlotChoices{}, false, nil
}
