// Item commands for the pebble CLI.
package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/pebble/internal/catalog"
)

func newItemsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "items",
		Short: "Manage the shop items",
	}
	cmd.AddCommand(
		newItemsSeedCmd(a),
		newItemsAddCmd(a),
		newItemsGetCmd(a),
		newItemsListCmd(a),
		newItemsUpdateCmd(a),
		newItemsDeleteCmd(a),
		newItemsQueryCmd(a),
		newItemsCountCmd(a),
		newItemsDropCmd(a),
		newItemsExportCmd(a),
		newItemsImportCmd(a),
	)
	return cmd
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: id %q is not an integer", errUsage, arg)
	}
	return id, nil
}

func newItemsSeedCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Fill an empty items table with the starter inventory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, items, err := a.openItems(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			n, err := catalog.Seed(cmd.Context(), items)
			if err != nil {
				return fmt.Errorf("seed: %w", err)
			}
			if n == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "items table already has data; nothing seeded")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d items\n", n)
			return nil
		},
	}
}

// itemFlags holds the attribute flags shared by add and update.
type itemFlags struct {
	name     string
	category string
	cost     int
	tags     []string
	note     string
}

func (f *itemFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "item name")
	cmd.Flags().StringVar(&f.category, "category", "", "item category")
	cmd.Flags().IntVar(&f.cost, "cost", 0, "cost in gold")
	cmd.Flags().StringArrayVar(&f.tags, "tag", nil, "tag (repeatable)")
	cmd.Flags().StringVar(&f.note, "note", "", "free-form note")
}

// apply copies the flags the user set onto it.
func (f *itemFlags) apply(cmd *cobra.Command, it *catalog.Item) error {
	flags := cmd.Flags()
	if flags.Changed("name") {
		if f.name == "" {
			return fmt.Errorf("%w: --name must not be empty", errUsage)
		}
		it.Name = f.name
	}
	if flags.Changed("category") {
		c, err := catalog.ParseCategory(f.category)
		if err != nil {
			return fmt.Errorf("%w: %w", errUsage, err)
		}
		it.Category = c
	}
	if flags.Changed("cost") {
		if f.cost < 0 {
			return fmt.Errorf("%w: --cost must not be negative", errUsage)
		}
		it.Cost = f.cost
	}
	if flags.Changed("tag") {
		it.Tags = f.tags
	}
	if flags.Changed("note") {
		if f.note == "" {
			it.Note = nil
		} else {
			note := f.note
			it.Note = &note
		}
	}
	return nil
}

func newItemsAddCmd(a *app) *cobra.Command {
	var f itemFlags
	cmd := &cobra.Command{
		Use:   "add --name <name> --category <category> [--cost n] [--tag t]... [--note text]",
		Short: "Add an item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var it catalog.Item
			if err := f.apply(cmd, &it); err != nil {
				return err
			}
			if it.Name == "" || it.Category == "" {
				return fmt.Errorf("%w: --name and --category are required", errUsage)
			}

			s, items, err := a.openItems(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			id, err := items.Insert(cmd.Context(), it)
			if err != nil {
				return fmt.Errorf("add item: %w", err)
			}
			it.ID = &id
			if a.output == outputText {
				fmt.Fprintf(cmd.OutOrStdout(), "Added item %d\n", id)
				return nil
			}
			return printItem(cmd.OutOrStdout(), a.output, it)
		},
	}
	f.register(cmd)
	return cmd
}

func newItemsGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			s, items, err := a.openItems(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			it, found, err := items.FindByID(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("get item: %w", err)
			}
			if !found {
				return fmt.Errorf("%w: item %d not found", errUsage, id)
			}
			return printItem(cmd.OutOrStdout(), a.output, it)
		},
	}
}

func newItemsListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every item in insertion order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, items, err := a.openItems(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			all, err := items.SelectAll(cmd.Context())
			if err != nil {
				return fmt.Errorf("list items: %w", err)
			}
			return printItems(cmd.OutOrStdout(), a.output, all)
		},
	}
}

func newItemsUpdateCmd(a *app) *cobra.Command {
	var f itemFlags
	cmd := &cobra.Command{
		Use:   "update <id> [--name n] [--category c] [--cost n] [--tag t]... [--note text]",
		Short: "Change the attributes of an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			s, items, err := a.openItems(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			it, found, err := items.FindByID(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("update item: %w", err)
			}
			if !found {
				return fmt.Errorf("%w: item %d not found", errUsage, id)
			}
			if err := f.apply(cmd, &it); err != nil {
				return err
			}
			n, err := items.Update(cmd.Context(), it)
			if err != nil {
				return fmt.Errorf("update item: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %d item(s)\n", n)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func newItemsDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			s, items, err := a.openItems(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			n, err := items.Delete(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("delete item: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d item(s)\n", n)
			return nil
		},
	}
}

func newItemsCountCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Print the number of items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, items, err := a.openItems(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			n, err := items.Count(cmd.Context())
			if err != nil {
				return fmt.Errorf("count items: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		},
	}
}

func newItemsDropCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "drop",
		Short: "Drop the items table and everything in it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, items, err := a.openItems(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			table := items.Descriptor().Table
			if err := items.DropTable(cmd.Context()); err != nil {
				return fmt.Errorf("drop %s: %w", table, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Dropped %s table\n", table)
			return nil
		},
	}
}

func newItemsExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file.jsonl>",
		Short: "Write every item to a JSON Lines file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, items, err := a.openItems(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			n, err := catalog.Export(cmd.Context(), items, args[0])
			if err != nil {
				return fmt.Errorf("export items: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d items to %s\n", n, args[0])
			return nil
		},
	}
}

func newItemsImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.jsonl>",
		Short: "Insert the items of a JSON Lines file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, items, err := a.openItems(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			n, err := catalog.Import(cmd.Context(), items, args[0])
			if err != nil {
				return fmt.Errorf("import items: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d items\n", n)
			return nil
		},
	}
}
