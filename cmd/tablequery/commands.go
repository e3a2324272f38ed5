/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"github.com/spf13/cobra"

	"github.com/suparena/tablestore"
	"github.com/suparena/tablestore/storagemodels"
)

func newGetCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get PARTITION_KEY ROW_KEY",
		Short: "Retrieve a single entity",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := opts.open(cmd)
			if err != nil {
				return err
			}
			op := table.Get(cmd.Context(), args[0], args[1])
			return render(cmd.OutOrStdout(), opts.output, op)
		},
	}
}

func newListCommand(opts *rootOptions) *cobra.Command {
	var (
		partition string
		index     string
		pageSize  int32
		where     []string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Retrieve every entity matching a filter",
		Example: `  tablequery list -t products --partition TECH --where 'Price>=100'
  tablequery list -t users --index GSI1 --partition EMAIL#a@b.c`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conditions, err := parseConditions(where)
			if err != nil {
				return err
			}
			filter := storagemodels.Where(conditions...).
				InPartition(partition).
				OnIndex(index).
				WithPageSize(pageSize)

			table, err := opts.open(cmd)
			if err != nil {
				return err
			}
			op := table.List(cmd.Context(), filter)
			return render(cmd.OutOrStdout(), opts.output, op)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&partition, "partition", "p", "", "partition key to query; scans the table when empty")
	flags.StringVar(&index, "index", "", "secondary index to query")
	flags.Int32Var(&pageSize, "page-size", 0, "items requested per page")
	flags.StringArrayVarP(&where, "where", "w", nil, "filter condition such as 'Price>=100' or 'RowKey^=PROD' (repeatable)")
	return cmd
}

func newVersionCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return encode(cmd.OutOrStdout(), opts.output, tablestore.GetVersionInfo())
		},
	}
}
