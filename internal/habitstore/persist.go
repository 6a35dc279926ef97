package habitstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/habits/pkg/types"
)

// entity names one top-level piece of state persisted under its own key.
type entity int

const (
	entityHabits entity = iota
	entityCompletions
	entityCategories
	entityNextHabitID
)

func (e entity) key() string {
	switch e {
	case entityHabits:
		return types.KeyHabits
	case entityCompletions:
		return types.KeyCompletions
	case entityCategories:
		return types.KeyCategories
	default:
		return types.KeyNextHabitID
	}
}

// Load reads all four keys from the backend. A present key replaces the
// in-memory entity; an absent key leaves it unchanged. Loaded data is
// normalized so the model's invariants hold afterwards.
func (s *Store) Load(ctx context.Context) error {
	var (
		habits      []types.Habit
		completions types.CompletionRecord
		categories  []string
		nextID      int
		loaded      = map[entity]bool{}
	)

	decode := map[entity]func(string) error{
		entityHabits: func(v string) error { return json.Unmarshal([]byte(v), &habits) },
		entityCompletions: func(v string) error {
			return json.Unmarshal([]byte(v), &completions)
		},
		entityCategories: func(v string) error { return json.Unmarshal([]byte(v), &categories) },
		entityNextHabitID: func(v string) error {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			nextID = n
			return err
		},
	}

	for _, e := range []entity{entityHabits, entityCompletions, entityCategories, entityNextHabitID} {
		v, ok, err := s.bridge.load(ctx, e.key())
		if err != nil {
			return fmt.Errorf("loading %s: %w", e.key(), err)
		}
		if !ok {
			continue
		}
		if err := decode[e](v); err != nil {
			return fmt.Errorf("%w: %s: %v", types.ErrCorruptSnapshot, e.key(), err)
		}
		loaded[e] = true
	}

	// Apply only after every key parsed, so a failure leaves the seed intact.
	if loaded[entityHabits] {
		s.habits = habits
	}
	if loaded[entityCompletions] {
		s.completions = completions
	}
	if loaded[entityCategories] {
		s.categories = categories
	}
	if loaded[entityNextHabitID] {
		s.nextHabitID = nextID
	}
	s.normalize()

	s.logger.Debug("state loaded",
		zap.Int("habits", len(s.habits)),
		zap.Int("categories", len(s.categories)),
		zap.Int("completion_dates", s.completions.Dates()),
		zap.Int("next_habit_id", s.nextHabitID),
		zap.Int("keys_found", len(loaded)),
	)
	return nil
}

// normalize restores invariants on data that did not come from this store:
// nil collections, false markers, empty dates, duplicate categories and a
// counter below 1 or not above every habit id.
func (s *Store) normalize() {
	if s.habits == nil {
		s.habits = []types.Habit{}
	}
	if s.categories == nil {
		s.categories = []string{}
	}
	if s.completions == nil {
		s.completions = make(types.CompletionRecord)
	}

	for date, ids := range s.completions {
		for id, done := range ids {
			if !done {
				delete(ids, id)
			}
		}
		if len(ids) == 0 {
			delete(s.completions, date)
		}
	}

	seen := make(map[string]bool, len(s.categories))
	uniq := s.categories[:0]
	for _, c := range s.categories {
		if !seen[c] {
			seen[c] = true
			uniq = append(uniq, c)
		}
	}
	s.categories = uniq

	if s.nextHabitID < 1 {
		s.nextHabitID = 1
	}
	for _, h := range s.habits {
		if h.ID >= s.nextHabitID {
			s.logger.Warn("habit id counter behind stored habits, advancing",
				zap.Int("next_habit_id", s.nextHabitID),
				zap.Int("habit_id", h.ID),
			)
			s.nextHabitID = h.ID + 1
		}
	}
}

// sync serializes each entity and hands it to the bridge. Every entity is
// attempted; the returned error joins all failures.
func (s *Store) sync(entities ...entity) error {
	var errs []error
	for _, e := range entities {
		v, err := s.encode(e)
		if err != nil {
			errs = append(errs, fmt.Errorf("encoding %s: %w", e.key(), err))
			continue
		}
		if err := s.bridge.write(e.key(), v); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *Store) encode(e entity) (string, error) {
	var (
		data []byte
		err  error
	)
	switch e {
	case entityHabits:
		data, err = json.Marshal(s.habits)
	case entityCompletions:
		data, err = json.Marshal(s.completions)
	case entityCategories:
		data, err = json.Marshal(s.categories)
	case entityNextHabitID:
		return strconv.Itoa(s.nextHabitID), nil
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Snapshot returns a deep copy of the persisted state.
func (s *Store) Snapshot() types.Snapshot {
	return types.Snapshot{
		Habits:      s.Habits(),
		Completions: s.Completions(),
		Categories:  s.Categories(),
		NextHabitID: s.nextHabitID,
	}
}

// Restore replaces the whole model with snap and writes all four entities.
func (s *Store) Restore(snap types.Snapshot) error {
	s.habits = append([]types.Habit(nil), snap.Habits...)
	s.completions = snap.Completions.Clone()
	s.categories = append([]string(nil), snap.Categories...)
	s.nextHabitID = snap.NextHabitID
	s.normalize()
	s.logger.Info("state restored from snapshot", zap.Int("habits", len(s.habits)))
	return s.sync(entityHabits, entityCompletions, entityCategories, entityNextHabitID)
}
