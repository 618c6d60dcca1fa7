package container

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// DateOnly is a calendar date without a time component. JSON and the
// database both carry it as "2006-01-02".
type DateOnly time.Time

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (DateOnly, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return DateOnly{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return DateOnly(t), nil
}

func (d DateOnly) String() string {
	return time.Time(d).Format(dateLayout)
}

func (d DateOnly) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *DateOnly) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	s := strings.Trim(string(b), `"`)
	parsed, err := time.Parse(dateLayout, s)
	if err != nil {
		return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	*d = DateOnly(parsed)
	return nil
}

// GormDataType maps the field to a DATE column.
func (DateOnly) GormDataType() string {
	return "date"
}

// Value implements the driver Valuer interface for database serialization.
func (d DateOnly) Value() (driver.Value, error) {
	return d.String(), nil
}

// Scan implements the Scanner interface for database deserialization.
// Drivers hand dates back either as time.Time or as text.
func (d *DateOnly) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		return nil
	case time.Time:
		*d = DateOnly(v)
		return nil
	case string:
		return d.scanString(v)
	case []byte:
		return d.scanString(string(v))
	default:
		return errors.New("unsupported source type for DateOnly")
	}
}

func (d *DateOnly) scanString(s string) error {
	if len(s) > len(dateLayout) {
		s = s[:len(dateLayout)]
	}
	parsed, err := time.Parse(dateLayout, s)
	if err != nil {
		return err
	}
	*d = DateOnly(parsed)
	return nil
}
