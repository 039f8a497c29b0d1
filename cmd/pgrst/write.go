package main

import (
	"context"
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/edgeflare/pgrst/pkg/postgrest"
)

var insertCmd = &cobra.Command{
	Use:   "insert <table>",
	Short: "Insert or upsert rows",
	Args:  cobra.ExactArgs(1),
	Run:   runInsert,
}

var updateCmd = &cobra.Command{
	Use:   "update <table>",
	Short: "Update rows matching filters",
	Args:  cobra.ExactArgs(1),
	Run:   runUpdate,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <table>",
	Short: "Delete rows matching filters",
	Args:  cobra.ExactArgs(1),
	Run:   runDelete,
}

var rpcCmd = &cobra.Command{
	Use:   "rpc <function>",
	Short: "Call a stored procedure",
	Args:  cobra.ExactArgs(1),
	Run:   runRpc,
}

func init() {
	for _, cmd := range []*cobra.Command{insertCmd, updateCmd, deleteCmd} {
		cmd.Flags().String("count", "", "Count method: exact, planned or estimated")
		cmd.Flags().String("returning", "", "Return mode: minimal or representation")
	}
	insertCmd.Flags().StringP("data", "d", "", "Row(s) as JSON, object or array")
	insertCmd.Flags().Bool("upsert", false, "Resolve duplicate keys by merging")
	insertCmd.Flags().Bool("ignore-duplicates", false, "Resolve duplicate keys by ignoring (implies upsert)")
	insertCmd.Flags().String("on-conflict", "", "Conflict target column(s), implies upsert")
	insertCmd.MarkFlagRequired("data")

	updateCmd.Flags().StringP("data", "d", "", "Changes as a JSON object")
	updateCmd.Flags().StringArrayP("filter", "f", nil, "Filter as col=op.value (repeatable)")
	updateCmd.MarkFlagRequired("data")

	deleteCmd.Flags().StringArrayP("filter", "f", nil, "Filter as col=op.value (repeatable)")

	rpcCmd.Flags().StringP("params", "p", "{}", "Function arguments as a JSON object")

	rootCmd.AddCommand(insertCmd, updateCmd, deleteCmd, rpcCmd)
}

func writeOptions(cmd *cobra.Command) postgrest.WriteOptions {
	count, _ := cmd.Flags().GetString("count")
	returning, _ := cmd.Flags().GetString("returning")
	return postgrest.WriteOptions{
		Count:     postgrest.CountMethod(count),
		Returning: postgrest.ReturnMethod(returning),
	}
}

func runInsert(cmd *cobra.Command, args []string) {
	data, _ := cmd.Flags().GetString("data")
	ignoreDuplicates, _ := cmd.Flags().GetBool("ignore-duplicates")
	onConflict, _ := cmd.Flags().GetString("on-conflict")
	upsert, _ := cmd.Flags().GetBool("upsert")

	table := newClient().From(args[0])
	opts := writeOptions(cmd)

	var chain *postgrest.Builder
	if upsert || ignoreDuplicates || onConflict != "" {
		chain = table.Upsert(json.RawMessage(data), &postgrest.UpsertOptions{
			WriteOptions:     opts,
			IgnoreDuplicates: ignoreDuplicates,
			OnConflict:       onConflict,
		})
	} else {
		chain = table.Insert(json.RawMessage(data), &postgrest.InsertOptions{WriteOptions: opts})
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	res, err := chain.Execute(ctx)
	exitOnError(err)
	printResponse(res)
}

func runUpdate(cmd *cobra.Command, args []string) {
	data, _ := cmd.Flags().GetString("data")
	opts := writeOptions(cmd)

	chain := newClient().From(args[0]).Update(json.RawMessage(data), &opts)
	if err := applyFilters(chain, cmd.Flags()); err != nil {
		exitOnError(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	res, err := chain.Execute(ctx)
	exitOnError(err)
	printResponse(res)
}

func runDelete(cmd *cobra.Command, args []string) {
	opts := writeOptions(cmd)

	chain := newClient().From(args[0]).Delete(&opts)
	if err := applyFilters(chain, cmd.Flags()); err != nil {
		exitOnError(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	res, err := chain.Execute(ctx)
	exitOnError(err)
	printResponse(res)
}

func runRpc(cmd *cobra.Command, args []string) {
	params, _ := cmd.Flags().GetString("params")

	chain := newClient().Rpc(args[0], json.RawMessage(params))

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	res, err := chain.Execute(ctx)
	exitOnError(err)
	printResponse(res)
}
