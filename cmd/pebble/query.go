package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/pebble/internal/catalog"
	"github.com/mesh-intelligence/pebble/pkg/pebble"
)

type queryFlags struct {
	eq    []string
	gt    []string
	lt    []string
	like  []string
	order string
	desc  bool
	limit int
	one   bool
	sql   bool
}

func newItemsQueryCmd(a *app) *cobra.Command {
	var f queryFlags
	cmd := &cobra.Command{
		Use:   "query [--eq f=v]... [--gt f=v]... [--lt f=v]... [--like f=pattern]... [--order f [--desc]] [--limit n] [--one]",
		Short: "Filter, order and limit items",
		Long: `Query reads items matching every given condition.

Non-key columns hold text, so --gt, --lt and --order compare text, not numbers.

Example:
  pebble items query --eq category=Basic
  pebble items query --like name=%Ward --order name
  pebble items query --eq name="Blink Dagger" --one`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, items, err := a.openItems(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			b, err := f.build(cmd, items)
			if err != nil {
				return err
			}

			if f.sql {
				query, binds, err := b.SQL()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), query)
				for i, v := range binds {
					fmt.Fprintf(cmd.OutOrStdout(), "  %d: %v\n", i+1, v)
				}
				return nil
			}

			if f.one {
				it, found, err := b.FetchOne(cmd.Context())
				if err != nil {
					return fmt.Errorf("query items: %w", err)
				}
				if !found {
					fmt.Fprintln(cmd.ErrOrStderr(), "no matching item")
					return nil
				}
				return printItem(cmd.OutOrStdout(), a.output, it)
			}

			found, err := b.Fetch(cmd.Context())
			if err != nil {
				return fmt.Errorf("query items: %w", err)
			}
			return printItems(cmd.OutOrStdout(), a.output, found)
		},
	}
	cmd.Flags().StringArrayVar(&f.eq, "eq", nil, "field=value equality (repeatable)")
	cmd.Flags().StringArrayVar(&f.gt, "gt", nil, "field=value greater than (repeatable)")
	cmd.Flags().StringArrayVar(&f.lt, "lt", nil, "field=value less than (repeatable)")
	cmd.Flags().StringArrayVar(&f.like, "like", nil, "field=pattern LIKE match (repeatable)")
	cmd.Flags().StringVar(&f.order, "order", "", "field to order by")
	cmd.Flags().BoolVar(&f.desc, "desc", false, "order descending")
	cmd.Flags().IntVar(&f.limit, "limit", 0, "maximum number of items")
	cmd.Flags().BoolVar(&f.one, "one", false, "print only the first match")
	cmd.Flags().BoolVar(&f.sql, "sql", false, "print the statement instead of running it")
	return cmd
}

// build turns the flags into a query. Conditions are added in the order
// --eq, --gt, --lt, --like.
func (f *queryFlags) build(cmd *cobra.Command, items *pebble.Table[catalog.Item]) (*pebble.Builder[catalog.Item], error) {
	b := items.Query()
	groups := []struct {
		pairs []string
		add   func(field string, value any) *pebble.Builder[catalog.Item]
	}{
		{f.eq, b.WhereEq},
		{f.gt, b.WhereGt},
		{f.lt, b.WhereLt},
		{f.like, b.WhereLike},
	}
	for _, g := range groups {
		for _, pair := range g.pairs {
			field, value, ok := strings.Cut(pair, "=")
			if !ok || field == "" {
				return nil, fmt.Errorf("%w: condition %q is not field=value", errUsage, pair)
			}
			g.add(field, value)
		}
	}
	if f.order != "" {
		b.OrderBy(f.order, !f.desc)
	}
	if cmd.Flags().Changed("limit") {
		b.Limit(f.limit)
	}
	return b, nil
}
