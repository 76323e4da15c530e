package volunteer

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/mr1hm/go-relief-coordinator/internal/models"
)

var (
	ErrUnknownSort   = errors.New("unknown sort field")
	ErrUnknownOrder  = errors.New("unknown sort order")
	ErrUnknownWindow = errors.New("unknown date window")
	ErrInvalidHours  = errors.New("hours must be a non-negative integer")
	ErrInvalidFlag   = errors.New("invalid boolean flag")
)

// ParseHours reads a duration bound; "" means unbounded (0).
func ParseHours(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidHours, s)
	}
	return n, nil
}

// ParseFlag reads an on/off query flag; "" means off.
func ParseFlag(s string) (bool, error) {
	if s == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("%w: %q", ErrInvalidFlag, s)
	}
	return b, nil
}

type SortField string

const (
	SortDate       SortField = "date"
	SortUrgency    SortField = "urgency"
	SortDuration   SortField = "duration"
	SortVolunteers SortField = "volunteers"
)

func ParseSortField(s string) (SortField, error) {
	switch SortField(strings.ToLower(s)) {
	case "", SortDate:
		return SortDate, nil
	case SortUrgency:
		return SortUrgency, nil
	case SortDuration:
		return SortDuration, nil
	case SortVolunteers:
		return SortVolunteers, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSort, s)
}

type Order string

const (
	Asc  Order = "asc"
	Desc Order = "desc"
)

func ParseOrder(s string) (Order, error) {
	switch Order(strings.ToLower(s)) {
	case "", Asc:
		return Asc, nil
	case Desc:
		return Desc, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownOrder, s)
}

// Window limits tasks to those dated within a period starting today.
type Window string

const (
	WindowAny   Window = "all"
	WindowToday Window = "today"
	WindowWeek  Window = "week"
	WindowMonth Window = "month"
)

func ParseWindow(s string) (Window, error) {
	switch Window(strings.ToLower(s)) {
	case "", WindowAny:
		return WindowAny, nil
	case WindowToday:
		return WindowToday, nil
	case WindowWeek:
		return WindowWeek, nil
	case WindowMonth:
		return WindowMonth, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownWindow, s)
}

const dateLayout = "2006-01-02"

type Query struct {
	Search        string
	Urgency       models.Urgency // empty matches all
	City          string
	Skill         string
	Window        Window
	MinHours      int
	MaxHours      int // 0 means no upper bound
	OnlyAvailable bool
	SortBy        SortField
	Order         Order
	// Now anchors the date window; zero means time.Now.
	Now time.Time
}

// Match reports whether t passes every filter in q.
func (q Query) Match(t *models.VolunteerTask) bool {
	if s := strings.ToLower(strings.TrimSpace(q.Search)); s != "" {
		if !strings.Contains(strings.ToLower(t.Title), s) &&
			!strings.Contains(strings.ToLower(t.Description), s) &&
			!strings.Contains(strings.ToLower(t.Location), s) {
			return false
		}
	}
	if q.Urgency != "" && t.Urgency != q.Urgency {
		return false
	}
	if q.City != "" {
		city := t.City()
		if city == "" || !strings.Contains(city, q.City) {
			return false
		}
	}
	if q.Skill != "" && !slices.Contains(t.RequiredSkills, q.Skill) {
		return false
	}
	if t.DurationHours < q.MinHours || (q.MaxHours > 0 && t.DurationHours > q.MaxHours) {
		return false
	}
	if q.OnlyAvailable && t.OpenSlots() == 0 {
		return false
	}
	return q.inWindow(t.Date)
}

func (q Query) inWindow(date string) bool {
	if q.Window == "" || q.Window == WindowAny {
		return true
	}
	d, err := time.Parse(dateLayout, date)
	if err != nil {
		return false
	}
	now := q.Now
	if now.IsZero() {
		now = time.Now()
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	switch q.Window {
	case WindowToday:
		return d.Equal(today)
	case WindowWeek:
		return !d.Before(today) && !d.After(today.AddDate(0, 0, 7))
	case WindowMonth:
		return !d.Before(today) && !d.After(today.AddDate(0, 1, 0))
	}
	return true
}

// Apply filters tasks by q and sorts the result. Ties keep catalog order.
func Apply(tasks []models.VolunteerTask, q Query) []models.VolunteerTask {
	out := make([]models.VolunteerTask, 0, len(tasks))
	for i := range tasks {
		if q.Match(&tasks[i]) {
			out = append(out, tasks[i])
		}
	}
	Sort(out, q.SortBy, q.Order)
	return out
}

func Sort(tasks []models.VolunteerTask, by SortField, order Order) {
	slices.SortStableFunc(tasks, func(a, b models.VolunteerTask) int {
		c := compare(&a, &b, by)
		if order == Desc {
			return -c
		}
		return c
	})
}

func compare(a, b *models.VolunteerTask, by SortField) int {
	switch by {
	case SortUrgency:
		return cmp.Compare(a.Urgency.Rank(), b.Urgency.Rank())
	case SortDuration:
		return cmp.Compare(a.DurationHours, b.DurationHours)
	case SortVolunteers:
		return cmp.Compare(a.OpenSlots(), b.OpenSlots())
	default:
		// ISO dates order lexically
		return strings.Compare(a.Date, b.Date)
	}
}
