package shared

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// TimelineEntry is one audit record on an aggregate's timeline
type TimelineEntry struct {
	At     time.Time `json:"at"`
	Event  string    `json:"event"`
	Detail string    `json:"detail,omitempty"`
	Actor  string    `json:"actor,omitempty"`
}

// Timeline is an append-only audit trail stored as JSONB
type Timeline []TimelineEntry

// Append adds an entry to the timeline and returns the extended timeline
func (t Timeline) Append(event, detail string) Timeline {
	return append(t, TimelineEntry{At: time.Now(), Event: event, Detail: detail})
}

// AppendBy adds an entry with an actor to the timeline
func (t Timeline) AppendBy(event, detail, actor string) Timeline {
	return append(t, TimelineEntry{At: time.Now(), Event: event, Detail: detail, Actor: actor})
}

// Value implements driver.Valuer for JSONB storage
func (t Timeline) Value() (driver.Value, error) {
	if t == nil {
		return "[]", nil
	}
	return json.Marshal(t)
}

// Scan implements sql.Scanner for reading from JSONB
func (t *Timeline) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into Timeline", value)
	}
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, t)
}
