package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// ErrCategoryNotFound is returned when a command names an unlisted category.
var ErrCategoryNotFound = errors.New("category not found")

func newCategoryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "category",
		Aliases: []string{"cat"},
		Short:   "Manage categories",
	}
	cmd.AddCommand(newCategoryListCmd(a))
	cmd.AddCommand(newCategoryAddCmd(a))
	cmd.AddCommand(newCategoryEditCmd(a))
	cmd.AddCommand(newCategoryDeleteCmd(a))
	return cmd
}

// categoryView is one row of category list.
type categoryView struct {
	Name   string `json:"name"`
	Habits int    `json:"habits"`
}

func newCategoryListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List categories in display order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := []categoryView{}
			for _, c := range a.store.Categories() {
				rows = append(rows, categoryView{Name: c, Habits: len(a.store.HabitsInCategory(c))})
			}
			if a.flags.jsonMode {
				return printJSON(out(cmd), rows)
			}
			for _, r := range rows {
				fmt.Fprintf(out(cmd), "%-20s %d\n", r.Name, r.Habits)
			}
			return nil
		},
	}
}

func newCategoryAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add NAME",
		Short: "Add a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if name == "" {
				return errors.New("category name is empty")
			}
			if contains(a.store.Categories(), name) {
				fmt.Fprintf(out(cmd), "Category %s already exists\n", name)
				return nil
			}
			if err := a.store.AddCategory(name); err != nil {
				return systemErr(err)
			}
			fmt.Fprintf(out(cmd), "Added category %s\n", name)
			return nil
		},
	}
}

func newCategoryEditCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "edit OLD NEW",
		Aliases: []string{"rename"},
		Short:   "Rename a category and move its habits",
		Long:    "Rename a category in place. Renaming onto an existing category merges\nthe two; the existing one keeps its position.",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			oldName, newName := args[0], args[1]
			if newName == "" {
				return errors.New("category name is empty")
			}
			if !contains(a.store.Categories(), oldName) {
				return fmt.Errorf("%w: %s", ErrCategoryNotFound, oldName)
			}
			merge := oldName != newName && contains(a.store.Categories(), newName)
			if err := a.store.EditCategory(oldName, newName); err != nil {
				return systemErr(err)
			}
			if merge {
				fmt.Fprintf(out(cmd), "Merged category %s into %s\n", oldName, newName)
				return nil
			}
			fmt.Fprintf(out(cmd), "Renamed category %s to %s\n", oldName, newName)
			return nil
		},
	}
}

func newCategoryDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete NAME",
		Aliases: []string{"rm"},
		Short:   "Delete a category and every habit in it",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			n := len(a.store.HabitsInCategory(name))
			if !contains(a.store.Categories(), name) && n == 0 {
				return fmt.Errorf("%w: %s", ErrCategoryNotFound, name)
			}
			if err := a.store.DeleteCategory(name); err != nil {
				return systemErr(err)
			}
			fmt.Fprintf(out(cmd), "Deleted category %s and %d habits\n", name, n)
			return nil
		},
	}
}
