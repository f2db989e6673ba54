package scheduling

import (
	"fmt"
	"strings"
	"time"

	"pawcare/internal/domain"
)

const (
	// ConflictBuffer — окно вокруг существующей записи, в котором новая запись запрещена.
	ConflictBuffer = 30 * time.Minute

	// SlotStep — шаг сетки слотов приема.
	SlotStep = time.Hour
)

// ConflictWindow возвращает границы окна конфликта [t-buffer, t+buffer] включительно.
func ConflictWindow(t time.Time) (time.Time, time.Time) {
	return t.Add(-ConflictBuffer), t.Add(ConflictBuffer)
}

// InConflict сообщает, попадает ли existing в окно конфликта вокруг candidate.
func InConflict(candidate, existing time.Time) bool {
	from, to := ConflictWindow(candidate)
	return !existing.Before(from) && !existing.After(to)
}

// WorksOn сообщает, принимает ли ветеринар в день недели даты date.
// Дни задаются английскими названиями в нижнем регистре: "monday", ...
func WorksOn(workingDays []string, date time.Time) bool {
	weekday := strings.ToLower(date.Weekday().String())
	for _, day := range workingDays {
		if strings.ToLower(strings.TrimSpace(day)) == weekday {
			return true
		}
	}
	return false
}

// GenerateSlots строит сетку слотов от from до to (формат "15:04", to не включается)
// с шагом step. Слот недоступен, если его время присутствует в booked.
// Слоты возвращаются по возрастанию времени.
func GenerateSlots(from, to string, step time.Duration, booked map[string]bool) ([]domain.TimeSlot, error) {
	startTime, err := time.Parse("15:04", from)
	if err != nil {
		return nil, fmt.Errorf("неверный формат времени начала приема %q: %w", from, domain.ErrValidation)
	}

	endTime, err := time.Parse("15:04", to)
	if err != nil {
		return nil, fmt.Errorf("неверный формат времени окончания приема %q: %w", to, domain.ErrValidation)
	}

	var slots []domain.TimeSlot
	for current := startTime; current.Before(endTime); current = current.Add(step) {
		timeStr := current.Format("15:04")
		slot := domain.TimeSlot{Time: timeStr, Available: true}
		if booked[timeStr] {
			slot.Available = false
			slot.Reason = "время уже занято"
		}
		slots = append(slots, slot)
	}

	return slots, nil
}
