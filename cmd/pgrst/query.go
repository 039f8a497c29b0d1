package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/edgeflare/pgrst/pkg/postgrest"
)

var getCmd = &cobra.Command{
	Use:   "get <table>",
	Short: "Query rows from a table or view",
	Args:  cobra.ExactArgs(1),
	Run:   runGet,
}

func init() {
	f := getCmd.Flags()
	f.StringP("select", "s", "", "Comma-separated columns to fetch")
	f.StringArrayP("filter", "f", nil, "Filter as col=op.value (repeatable)")
	f.String("order", "", "Order as col.asc or col.desc, comma-separated")
	f.Int("limit", 0, "Limit number of rows")
	f.Int("offset", 0, "Skip first n rows")
	f.String("count", "", "Count method: exact, planned or estimated")
	f.Bool("single", false, "Expect exactly one row")
	f.Bool("maybe-single", false, "Expect at most one row")

	rootCmd.AddCommand(getCmd)
}

func runGet(cmd *cobra.Command, args []string) {
	f := cmd.Flags()

	columns := splitColumns(mustString(f.GetString("select")))
	count := postgrest.CountMethod(mustString(f.GetString("count")))

	chain := newClient().From(args[0]).SelectWithCount(count, columns...)
	if err := applyFilters(chain, f); err != nil {
		exitOnError(err)
	}

	if order := mustString(f.GetString("order")); order != "" {
		for _, clause := range strings.Split(order, ",") {
			column, dir, _ := strings.Cut(clause, ".")
			chain.Order(column, &postgrest.OrderOptions{Ascending: !strings.HasPrefix(dir, "desc")})
		}
	}
	if limit, _ := f.GetInt("limit"); limit > 0 {
		chain.Limit(limit)
	}
	if offset, _ := f.GetInt("offset"); offset > 0 {
		chain.Offset(offset)
	}
	if single, _ := f.GetBool("single"); single {
		chain.Single()
	}
	if maybeSingle, _ := f.GetBool("maybe-single"); maybeSingle {
		chain.MaybeSingle()
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	res, err := chain.Execute(ctx)
	exitOnError(err)
	printResponse(res)
}

func splitColumns(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func mustString(s string, _ error) string { return s }

// applyFilters adds each --filter col=op.value predicate to the chain.
func applyFilters(chain *postgrest.FilterBuilder, f interface {
	GetStringArray(string) ([]string, error)
}) error {
	filters, _ := f.GetStringArray("filter")
	for _, raw := range filters {
		column, rest, ok := strings.Cut(raw, "=")
		if !ok {
			return fmt.Errorf("invalid filter %q, want col=op.value", raw)
		}
		op, value, ok := strings.Cut(rest, ".")
		if !ok {
			return fmt.Errorf("invalid filter %q, want col=op.value", raw)
		}
		chain.Filter(column, op, value)
	}
	return nil
}
