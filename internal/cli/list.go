package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/habits/pkg/types"
)

// habitView is one habit as rendered on a day.
type habitView struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	Completed bool   `json:"completed"`
	Streak    int    `json:"streak"`
}

// groupView is a category heading and the habits under it.
type groupView struct {
	Name   string      `json:"name"`
	Listed bool        `json:"listed"`
	Habits []habitView `json:"habits"`
}

// dayView is the list command's JSON document.
type dayView struct {
	Date   string      `json:"date"`
	Today  string      `json:"today"`
	Groups []groupView `json:"categories"`
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show habits grouped by category for the selected day",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			view := a.dayView()
			if a.flags.jsonMode {
				return printJSON(out(cmd), view)
			}
			printDay(cmd, view)
			return nil
		},
	}
}

// dayView groups habits under the category list in display order. Habits
// whose category is not in the list follow, grouped by first appearance.
func (a *app) dayView() dayView {
	s := a.store
	view := dayView{Date: s.SelectedDate(), Today: s.Today()}

	render := func(h types.Habit) habitView {
		return habitView{
			ID:        h.ID,
			Name:      h.Name,
			Category:  h.Category,
			Completed: s.IsCompleted(h.ID),
			Streak:    s.Streak(h.ID),
		}
	}

	listed := make(map[string]bool)
	for _, c := range s.Categories() {
		listed[c] = true
		g := groupView{Name: c, Listed: true, Habits: []habitView{}}
		for _, h := range s.HabitsInCategory(c) {
			g.Habits = append(g.Habits, render(h))
		}
		view.Groups = append(view.Groups, g)
	}

	orphan := make(map[string]int)
	for _, h := range s.Habits() {
		if listed[h.Category] {
			continue
		}
		i, ok := orphan[h.Category]
		if !ok {
			i = len(view.Groups)
			orphan[h.Category] = i
			view.Groups = append(view.Groups, groupView{Name: h.Category})
		}
		view.Groups[i].Habits = append(view.Groups[i].Habits, render(h))
	}
	return view
}

func printDay(cmd *cobra.Command, view dayView) {
	w := out(cmd)
	title := view.Date
	if view.Date == view.Today {
		title += " (today)"
	}
	fmt.Fprintf(w, "Habits for %s\n", title)

	for _, g := range view.Groups {
		heading := g.Name
		if !g.Listed {
			heading += " (unlisted)"
		}
		fmt.Fprintf(w, "\n%s\n", headingStyle.Sprint(heading))
		if len(g.Habits) == 0 {
			fmt.Fprintln(w, "  no habits")
			continue
		}
		for _, h := range g.Habits {
			fmt.Fprintf(w, "  %s %3d  %-20s %s\n", marker(h.Completed), h.ID, h.Name, days(h.Streak))
		}
	}
}
