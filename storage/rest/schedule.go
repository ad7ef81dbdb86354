package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/shulehub/shule/core/schedule"
)

var _ schedule.Repository = (*Client)(nil)

// ClassSchedule returns a class's stored rows grouped by day. The backend
// answers either {"schedules": {day: [...]}} or the bare day map.
func (c *Client) ClassSchedule(ctx context.Context, classID int) (map[string][]schedule.Slot, error) {
	data, err := c.get(ctx, fmt.Sprintf("/api/schedules/class/%d", classID))
	if err != nil {
		return nil, err
	}

	var nested struct {
		Schedules map[string][]schedule.Slot `json:"schedules"`
	}
	if err := json.Unmarshal(data, &nested); err == nil && nested.Schedules != nil {
		return nested.Schedules, nil
	}

	var bare map[string][]schedule.Slot
	if err := json.Unmarshal(data, &bare); err != nil {
		return nil, err
	}
	return bare, nil
}

func (c *Client) SaveBulk(ctx context.Context, bulk schedule.BulkSchedule) error {
	_, err := c.do(ctx, http.MethodPost, "/api/schedules/bulk", bulk)
	return err
}
