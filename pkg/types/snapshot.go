package types

// Snapshot is the full persisted state, used by export and import.
type Snapshot struct {
	Habits      []Habit          `json:"habits"`
	Completions CompletionRecord `json:"completedHabits"`
	Categories  []string         `json:"categories"`
	NextHabitID int              `json:"nextHabitId"`
}
