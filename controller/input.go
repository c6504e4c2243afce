package controller

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

const (
	MinDuration  = 30
	MaxDuration  = 12 * 60
	DurationStep = 30
	MaxDaysAhead = 5

	dateLayout  = "2006-01-02"
	clockLayout = "15:04"
)

var (
	ErrNotReady    = errors.New("facilities data not loaded")
	ErrNoSelection = errors.New("select a campus or building first")
	ErrSuperseded  = errors.New("selection changed while checking availability")
)

// InputError collects rejected user input by field.
type InputError struct {
	fields map[string][]string
}

func NewInputError(field, msg string) *InputError {
	return &InputError{fields: map[string][]string{field: {msg}}}
}

func IsInputError(err error) *InputError {
	if err == nil {
		return nil
	}

	var inputError *InputError

	if errors.As(err, &inputError) {
		return inputError
	}

	return nil
}

func (ie *InputError) Error() string {
	keys := make([]string, 0, len(ie.fields))
	for k := range ie.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(ie.fields[k], "; ")))
	}
	return strings.Join(parts, ", ")
}

func (ie *InputError) Fields() map[string][]string {
	return ie.fields
}

// ValidateDuration accepts 30..720 minutes in 30-minute steps.
func ValidateDuration(minutes int, msg string) error {
	if minutes < MinDuration || minutes > MaxDuration || minutes%DurationStep != 0 {
		return NewInputError("duration", msg)
	}
	return nil
}

// ValidateDate accepts today up to MaxDaysAhead days ahead, in now's zone.
func ValidateDate(date string, now time.Time, msg string) error {
	parsed, err := time.ParseInLocation(dateLayout, date, now.Location())
	if err != nil {
		return NewInputError("date", fmt.Sprintf("invalid date %q (expected YYYY-MM-DD)", date))
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if parsed.Before(today) || parsed.After(today.AddDate(0, 0, MaxDaysAhead)) {
		return NewInputError("date", msg)
	}
	return nil
}

func parseClock(clock string) (int, error) {
	parsed, err := time.Parse(clockLayout, clock)
	if err != nil {
		return 0, NewInputError("time", fmt.Sprintf("invalid time %q (expected HH:MM)", clock))
	}
	return parsed.Hour()*60 + parsed.Minute(), nil
}

// SnapTime rounds clock down to a 30-minute boundary, returning it as HH:MM,
// and reports whether the time of day changed.
func SnapTime(clock string) (string, bool, error) {
	minutes, err := parseClock(clock)
	if err != nil {
		return "", false, err
	}
	snapped := minutes / DurationStep * DurationStep
	return fmt.Sprintf("%02d:%02d", snapped/60, snapped%60), snapped != minutes, nil
}
