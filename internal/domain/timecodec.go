package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Period половина суток в 12-часовом представлении
type Period string

const (
	PeriodAM Period = "AM"
	PeriodPM Period = "PM"
)

const minutesPerDay = 24 * 60

// Valid проверяет, что период равен AM или PM
func (p Period) Valid() bool {
	return p == PeriodAM || p == PeriodPM
}

// ParsePeriod разбирает период без учёта регистра
func ParsePeriod(s string) (Period, error) {
	p := Period(strings.ToUpper(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("%w: period %q", ErrInvalidFieldValue, s)
	}
	return p, nil
}

// DisplayTime время в представлении для редактирования: "HH:MM" в 12-часовом формате + AM/PM
type DisplayTime struct {
	Value  string
	Period Period
}

// IsZero возвращает true, если время не задано
func (t DisplayTime) IsZero() bool {
	return strings.TrimSpace(t.Value) == ""
}

// Canonical возвращает 24-часовое представление или "" для некорректного значения
func (t DisplayTime) Canonical() string {
	return ToCanonical(t.Value, t.Period)
}

func (t DisplayTime) String() string {
	if t.IsZero() {
		return ""
	}
	return t.Value + " " + string(t.Period)
}

// ToCanonical переводит 12-часовое время и период в каноническое "HH:MM" (24 часа).
// 12 AM -> 00:MM, 12 PM -> 12:MM, PM 1..11 -> +12, AM 1..11 без изменений.
// Для пустого или некорректного ввода возвращает "".
func ToCanonical(value string, period Period) string {
	hour, minute, ok := parseClock(value)
	if !ok || hour < 1 || hour > 12 || !period.Valid() {
		return ""
	}

	switch {
	case period == PeriodAM && hour == 12:
		hour = 0
	case period == PeriodPM && hour != 12:
		hour += 12
	}

	return formatClock(hour, minute)
}

// ToDisplay обратное преобразование: каноническое время -> (12-часовое значение, период).
// Для пустого или некорректного ввода возвращает DisplayTime{Value: "", Period: AM}.
func ToDisplay(canonical string) DisplayTime {
	hour, minute, ok := parseClock(canonical)
	if !ok || hour > 23 {
		return DisplayTime{Value: "", Period: PeriodAM}
	}

	switch {
	case hour == 0:
		return DisplayTime{Value: formatClock(12, minute), Period: PeriodAM}
	case hour == 12:
		return DisplayTime{Value: formatClock(12, minute), Period: PeriodPM}
	case hour < 12:
		return DisplayTime{Value: formatClock(hour, minute), Period: PeriodAM}
	default:
		return DisplayTime{Value: formatClock(hour-12, minute), Period: PeriodPM}
	}
}

// ParseDisplayHour возвращает час 12-часового значения, если он в диапазоне 1..12 и минуты корректны
func ParseDisplayHour(value string) (int, bool) {
	hour, _, ok := parseClock(value)
	if !ok || hour < 1 || hour > 12 {
		return 0, false
	}
	return hour, true
}

// CanonicalMinutes возвращает количество минут от полуночи для канонического времени
func CanonicalMinutes(canonical string) (int, bool) {
	hour, minute, ok := parseClock(canonical)
	if !ok || hour > 23 {
		return 0, false
	}
	return hour*60 + minute, true
}

// FormatCanonical форматирует минуты от полуночи в каноническое время
func FormatCanonical(minutes int) (string, bool) {
	if minutes < 0 || minutes >= minutesPerDay {
		return "", false
	}
	return formatClock(minutes/60, minutes%60), true
}

// AddMinutesToDisplay сдвигает время на delta минут. Возвращает false при выходе за пределы суток.
func AddMinutesToDisplay(t DisplayTime, delta int) (DisplayTime, bool) {
	minutes, ok := CanonicalMinutes(t.Canonical())
	if !ok {
		return DisplayTime{}, false
	}

	shifted, ok := FormatCanonical(minutes + delta)
	if !ok {
		return DisplayTime{}, false
	}

	return ToDisplay(shifted), true
}

// parseClock разбирает строго "HH:MM"
func parseClock(s string) (hour, minute int, ok bool) {
	h, m, found := strings.Cut(strings.TrimSpace(s), ":")
	if !found || len(h) != 2 || len(m) != 2 {
		return 0, 0, false
	}
	if !isDigits(h) || !isDigits(m) {
		return 0, 0, false
	}

	hour, err := strconv.Atoi(h)
	if err != nil {
		return 0, 0, false
	}
	minute, err = strconv.Atoi(m)
	if err != nil || minute > 59 {
		return 0, 0, false
	}

	return hour, minute, true
}

func formatClock(hour, minute int) string {
	return fmt.Sprintf("%02d:%02d", hour, minute)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
