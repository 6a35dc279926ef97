package types

// Habit is a recurring task the user tracks.
type Habit struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// Seed values used when storage holds no prior snapshot.
var (
	SeedHabits = []Habit{
		{ID: 1, Name: "Exercise", Category: "Health"},
		{ID: 2, Name: "Read", Category: "Hobbies"},
		{ID: 3, Name: "Meditate", Category: "Health"},
	}
	SeedCategories  = []string{"Health", "Hobbies", "Work"}
	SeedNextHabitID = 4
)
