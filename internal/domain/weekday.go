package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// WeekDay день недели с фиксированным индексом 0..6 (Sun..Sat)
type WeekDay int

const (
	Sunday WeekDay = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

// DaysInWeek количество дней в недельном расписании
const DaysInWeek = 7

var weekDayNames = [DaysInWeek]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

var weekDayFullNames = [DaysInWeek]string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}

// AllWeekDays возвращает дни недели в порядке индексов
func AllWeekDays() []WeekDay {
	return []WeekDay{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}
}

// Index возвращает стабильный индекс дня (используется в batch ID)
func (d WeekDay) Index() int {
	return int(d)
}

// Valid проверяет, что день входит в диапазон 0..6
func (d WeekDay) Valid() bool {
	return d >= Sunday && d <= Saturday
}

func (d WeekDay) String() string {
	if !d.Valid() {
		return fmt.Sprintf("WeekDay(%d)", int(d))
	}
	return weekDayNames[d]
}

// ParseWeekDay разбирает день недели из короткого имени ("Mon"), полного имени ("monday") или индекса ("1")
func ParseWeekDay(s string) (WeekDay, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty value", ErrInvalidWeekDay)
	}

	if idx, err := strconv.Atoi(s); err == nil {
		d := WeekDay(idx)
		if !d.Valid() {
			return 0, fmt.Errorf("%w: index %d out of range", ErrInvalidWeekDay, idx)
		}
		return d, nil
	}

	lower := strings.ToLower(s)
	for i := 0; i < DaysInWeek; i++ {
		if lower == strings.ToLower(weekDayNames[i]) || lower == weekDayFullNames[i] {
			return WeekDay(i), nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrInvalidWeekDay, s)
}
