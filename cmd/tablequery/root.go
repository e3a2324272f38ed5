/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/suparena/tablestore"
	"github.com/suparena/tablestore/config"
	"github.com/suparena/tablestore/datastore"
	"github.com/suparena/tablestore/datastore/ddb"
)

type rootOptions struct {
	configPath string
	store      string
	table      string
	output     string
	verbose    bool

	newFactory factoryFunc
}

// factoryFunc builds the client factory for the loaded configuration.
type factoryFunc func(cfg *config.Config, logger *slog.Logger) datastore.ClientFactory

func dynamoFactory(cfg *config.Config, logger *slog.Logger) datastore.ClientFactory {
	return ddb.NewFactory(cfg, ddb.WithFactoryLogger(logger))
}

func newRootCommand(stdout, stderr io.Writer, newFactory factoryFunc) *cobra.Command {
	opts := &rootOptions{newFactory: newFactory}

	cmd := &cobra.Command{
		Use:           "tablequery",
		Short:         "Query a table store and print the classified outcome",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "tablestore.yaml", "store configuration file; AWS_* environment variables are used when it does not exist")
	flags.StringVarP(&opts.store, "store", "s", config.DefaultStoreName, "logical store name")
	flags.StringVarP(&opts.table, "table", "t", "", "table name")
	flags.StringVarP(&opts.output, "output", "o", "json", "output format: json or yaml")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log every store call")

	cmd.AddCommand(
		newGetCommand(opts),
		newListCommand(opts),
		newVersionCommand(opts),
	)
	return cmd
}

// open returns the requested table on a registry backed by the configured stores.
func (o *rootOptions) open(cmd *cobra.Command) (*tablestore.Table[map[string]any], error) {
	if o.table == "" {
		return nil, fmt.Errorf("--table is required")
	}
	if o.output != "json" && o.output != "yaml" {
		return nil, fmt.Errorf("unsupported output format %q", o.output)
	}

	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	cfg, err := o.loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	reg := tablestore.NewRegistry(
		tablestore.WithFallback(o.newFactory(cfg, logger)),
		tablestore.WithRegistryLogger(logger),
	)
	return tablestore.NewTable[map[string]any](reg.Service(), o.store, o.table), nil
}

func (o *rootOptions) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err == nil {
		return cfg, nil
	}
	if stderrors.Is(err, fs.ErrNotExist) && !cmd.Flags().Changed("config") {
		return config.FromEnv()
	}
	return nil, err
}
