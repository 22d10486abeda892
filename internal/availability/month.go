package availability

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/t0mb36/veloApp-sub001/internal/catalog"
)

const monthLayout = "2006-01"

// Month is a calendar month as shown by the booking calendar.
type Month struct {
	Year  int
	Month time.Month
}

func MonthOf(d catalog.Date) Month {
	return Month{Year: d.Year(), Month: d.Month()}
}

func ParseMonth(s string) (Month, error) {
	t, err := time.Parse(monthLayout, s)
	if err != nil {
		return Month{}, fmt.Errorf("invalid month %q: %w", s, err)
	}
	return Month{Year: t.Year(), Month: t.Month()}, nil
}

func (m Month) First() catalog.Date {
	return catalog.NewDate(m.Year, m.Month, 1)
}

func (m Month) Next() Month { return MonthOf(m.First().AddMonths(1)) }
func (m Month) Prev() Month { return MonthOf(m.First().AddMonths(-1)) }

// Days lists every date of the month in order.
func (m Month) Days() []catalog.Date {
	first := m.First()
	days := make([]catalog.Date, 0, 31)
	for d := first; d.Month() == first.Month(); d = d.AddDays(1) {
		days = append(days, d)
	}
	return days
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

func (m Month) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *Month) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseMonth(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
