package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/habits/pkg/types"
)

// ErrHabitNotFound is returned when a command names an id no habit has.
var ErrHabitNotFound = errors.New("habit not found")

// habitArg parses an id argument and looks the habit up.
func (a *app) habitArg(arg string) (types.Habit, error) {
	id, err := strconv.Atoi(arg)
	if err != nil {
		return types.Habit{}, fmt.Errorf("invalid habit id %q", arg)
	}
	h, ok := a.store.Habit(id)
	if !ok {
		return types.Habit{}, fmt.Errorf("%w: %d", ErrHabitNotFound, id)
	}
	return h, nil
}

func newAddCmd(a *app) *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "add NAME...",
		Short: "Add a habit",
		Long:  "Add a habit under a category. Words of NAME are joined with spaces.\nThe category does not have to exist yet.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(strings.Join(args, " "))
			if name == "" {
				return errors.New("habit name is empty")
			}
			h, err := a.store.AddHabit(name, category)
			if err != nil {
				return systemErr(err)
			}
			if a.flags.jsonMode {
				return printJSON(out(cmd), h)
			}
			fmt.Fprintf(out(cmd), "Added habit %d: %s (%s)\n", h.ID, h.Name, h.Category)
			if !contains(a.store.Categories(), category) {
				fmt.Fprintln(cmd.ErrOrStderr(), noticeStyle.Sprintf("category %q is not listed; add it with: habits category add %q", category, category))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", "", "category of the habit")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

func newRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "remove ID",
		Aliases: []string{"rm"},
		Short:   "Remove a habit and its completion history",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := a.habitArg(args[0])
			if err != nil {
				return err
			}
			if err := a.store.RemoveHabit(h.ID); err != nil {
				return systemErr(err)
			}
			fmt.Fprintf(out(cmd), "Removed habit %d: %s\n", h.ID, h.Name)
			return nil
		},
	}
}

// toggleResult is the toggle command's JSON document.
type toggleResult struct {
	ID        int    `json:"id"`
	Date      string `json:"date"`
	Completed bool   `json:"completed"`
	Streak    int    `json:"streak"`
}

func newToggleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle ID",
		Short: "Flip a habit's completion on the selected day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := a.habitArg(args[0])
			if err != nil {
				return err
			}
			if err := a.store.ToggleCompletion(h.ID); err != nil {
				return systemErr(err)
			}
			res := toggleResult{
				ID:        h.ID,
				Date:      a.store.SelectedDate(),
				Completed: a.store.IsCompleted(h.ID),
				Streak:    a.store.Streak(h.ID),
			}
			if a.flags.jsonMode {
				return printJSON(out(cmd), res)
			}
			state := "not done"
			if res.Completed {
				state = "done"
			}
			fmt.Fprintf(out(cmd), "%s %s marked %s on %s, streak %s\n", marker(res.Completed), h.Name, state, res.Date, days(res.Streak))
			return nil
		},
	}
}

func newStreakCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "streak ID",
		Short: "Show consecutive completed days ending today",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := a.habitArg(args[0])
			if err != nil {
				return err
			}
			n := a.store.Streak(h.ID)
			if a.flags.jsonMode {
				return printJSON(out(cmd), map[string]int{"id": h.ID, "streak": n})
			}
			fmt.Fprintf(out(cmd), "%s: %s\n", h.Name, days(n))
			return nil
		},
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
