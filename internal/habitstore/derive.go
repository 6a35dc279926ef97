package habitstore

import (
	"sort"

	"github.com/mesh-intelligence/habits/pkg/types"
)

// IsCompleted reports whether habitID is done on the selected date.
func (s *Store) IsCompleted(habitID int) bool {
	return s.completions.Has(s.selectedDate, habitID)
}

// IsCompletedOn reports whether habitID is done on date.
func (s *Store) IsCompletedOn(habitID int, date string) bool {
	return s.completions.Has(date, habitID)
}

// Streak counts consecutive completed days ending today. It walks back from
// local midnight one calendar day at a time and stops at the first day
// without a completion, so a habit not done today has a streak of 0.
func (s *Store) Streak(habitID int) int {
	n := 0
	day := types.StartOfDay(s.now())
	for s.completions.Has(types.FormatDate(day), habitID) {
		n++
		day = day.AddDate(0, 0, -1)
	}
	return n
}

// Habits returns a copy of the habit list in insertion order.
func (s *Store) Habits() []types.Habit {
	return append([]types.Habit{}, s.habits...)
}

// Habit looks up a habit by id.
func (s *Store) Habit(id int) (types.Habit, bool) {
	for _, h := range s.habits {
		if h.ID == id {
			return h, true
		}
	}
	return types.Habit{}, false
}

// HabitsInCategory returns the habits whose category equals name.
func (s *Store) HabitsInCategory(name string) []types.Habit {
	var out []types.Habit
	for _, h := range s.habits {
		if h.Category == name {
			out = append(out, h)
		}
	}
	return out
}

// Categories returns a copy of the category list in display order.
func (s *Store) Categories() []string {
	return append([]string{}, s.categories...)
}

// Completions returns a deep copy of the completion record.
func (s *Store) Completions() types.CompletionRecord {
	return s.completions.Clone()
}

// CompletedOn returns the ids completed on date, ascending.
func (s *Store) CompletedOn(date string) []int {
	ids := make([]int, 0, len(s.completions[date]))
	for id := range s.completions[date] {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// NextHabitID returns the id the next added habit will get.
func (s *Store) NextHabitID() int { return s.nextHabitID }
