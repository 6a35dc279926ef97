package habitstore

import (
	"go.uber.org/zap"

	"github.com/mesh-intelligence/habits/pkg/types"
)

// Mutations change memory first and then sync the entities they touched.
// The returned error reports a failed write only; the in-memory change is
// kept either way. Arguments naming something that does not exist are
// silent no-ops.

// ToggleCompletion flips habitID's completion on the selected date.
func (s *Store) ToggleCompletion(habitID int) error {
	return s.ToggleCompletionOn(habitID, s.selectedDate)
}

// ToggleCompletionOn flips habitID's completion on date. Toggling twice
// restores the record exactly.
func (s *Store) ToggleCompletionOn(habitID int, date string) error {
	ids, ok := s.completions[date]
	if !ok {
		ids = make(map[int]bool)
		s.completions[date] = ids
	}
	if ids[habitID] {
		delete(ids, habitID)
	} else {
		ids[habitID] = true
	}
	if len(ids) == 0 {
		delete(s.completions, date)
	}

	s.logger.Debug("completion toggled",
		zap.Int("habit_id", habitID),
		zap.String("date", date),
		zap.Bool("completed", s.completions.Has(date, habitID)),
	)
	return s.sync(entityCompletions)
}

// AddHabit appends a habit with the next id and advances the counter.
// Names need not be unique and the category need not exist.
func (s *Store) AddHabit(name, category string) (types.Habit, error) {
	h := types.Habit{ID: s.nextHabitID, Name: name, Category: category}
	s.habits = append(s.habits, h)
	s.nextHabitID++

	s.logger.Info("habit added", zap.Int("habit_id", h.ID), zap.String("category", category))
	return h, s.sync(entityHabits, entityNextHabitID)
}

// RemoveHabit deletes the habit and its completion marks, pruning dates
// left empty. Both entities are written even when habitID is unknown.
func (s *Store) RemoveHabit(habitID int) error {
	kept := s.habits[:0]
	removed := false
	for _, h := range s.habits {
		if h.ID == habitID {
			removed = true
			continue
		}
		kept = append(kept, h)
	}
	s.habits = kept

	for date, ids := range s.completions {
		delete(ids, habitID)
		if len(ids) == 0 {
			delete(s.completions, date)
		}
	}

	if removed {
		s.logger.Info("habit removed", zap.Int("habit_id", habitID))
	}
	return s.sync(entityHabits, entityCompletions)
}

// AddCategory appends name unless an identical category exists.
func (s *Store) AddCategory(name string) error {
	if s.categoryIndex(name) >= 0 {
		return nil
	}
	s.categories = append(s.categories, name)
	s.logger.Info("category added", zap.String("category", name))
	return s.sync(entityCategories)
}

// EditCategory renames oldName in place and moves its habits to newName.
// When newName already exists the two categories merge: oldName's slot is
// dropped and newName keeps its position, so the list never holds a name
// twice.
func (s *Store) EditCategory(oldName, newName string) error {
	i := s.categoryIndex(oldName)
	if i < 0 || oldName == newName {
		return nil
	}

	if s.categoryIndex(newName) >= 0 {
		s.categories = append(s.categories[:i], s.categories[i+1:]...)
	} else {
		s.categories[i] = newName
	}

	for j := range s.habits {
		if s.habits[j].Category == oldName {
			s.habits[j].Category = newName
		}
	}

	s.logger.Info("category renamed", zap.String("from", oldName), zap.String("to", newName))
	return s.sync(entityHabits, entityCategories)
}

// DeleteCategory removes name and every habit in it. Completion marks of
// the deleted habits are left in place; they are stale references that
// RemoveHabit would have pruned.
func (s *Store) DeleteCategory(name string) error {
	if i := s.categoryIndex(name); i >= 0 {
		s.categories = append(s.categories[:i], s.categories[i+1:]...)
	}

	kept := s.habits[:0]
	dropped := 0
	for _, h := range s.habits {
		if h.Category == name {
			dropped++
			continue
		}
		kept = append(kept, h)
	}
	s.habits = kept

	s.logger.Info("category deleted", zap.String("category", name), zap.Int("habits_deleted", dropped))
	return s.sync(entityHabits, entityCategories)
}

func (s *Store) categoryIndex(name string) int {
	for i, c := range s.categories {
		if c == name {
			return i
		}
	}
	return -1
}
