package dbh

import (
	"database/sql/driver"
	"encoding/json"
	"strconv"
	"time"
)

// IntTime is time in milliseconds UTC (aka unix milliseconds).
// IntTime makes it easy to save Int64 milliseconds into an SQLite database with gorm.
// In addition, it marshals nicely into JSON, and supports omitempty.
// By using milliseconds in JSON, you can write "new Date(x)" in Javascript to deserialize,
// and x.getTime() to serialize.
// One important downside is that the zero value means nil, so we are unable to represent
// the date 1970-01-01 00:00:00.000.
type IntTime int64

// Return a new IntTime from a time.Time
func MakeIntTime(v time.Time) IntTime {
	if v.IsZero() {
		return 0
	}
	return IntTime(v.UnixMilli())
}

// Yes, this seems silly. But it's nice to have it show up in your IDE after pressing '.'
func (t IntTime) IsZero() bool {
	return t == 0
}

// Set IntTime to time.Time
func (t *IntTime) Set(v time.Time) {
	if v.IsZero() {
		*t = 0
	} else {
		*t = IntTime(v.UnixMilli())
	}
}

// Get time.Time
func (t IntTime) Get() time.Time {
	if t == 0 {
		return time.Time{}
	}
	return time.UnixMilli(int64(t)).UTC()
}

func (t *IntTime) Scan(src any) error {
	if src == nil {
		*t = 0
		return nil
	}
	if srcInt, ok := src.(int32); ok {
		*t = IntTime(srcInt)
	} else if srcInt64, ok := src.(int64); ok {
		*t = IntTime(srcInt64)
	}
	return nil
}

func (t IntTime) Value() (driver.Value, error) {
	if t == 0 {
		return nil, nil
	}
	return int64(t), nil
}

func (t IntTime) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatInt(int64(t), 10)), nil
}

func (t *IntTime) UnmarshalJSON(b []byte) error {
	var ms int64
	if err := json.Unmarshal(b, &ms); err != nil {
		return err
	}
	*t = IntTime(ms)
	return nil
}
