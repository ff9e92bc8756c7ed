package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"shop-admin/pkg/app"
	"shop-admin/pkg/config"
	"shop-admin/pkg/db"
	"shop-admin/pkg/hooks"
	"shop-admin/pkg/model"
)

type rootOpts struct {
	store      string
	sqlitePath string
	hooks      string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	var opts rootOpts
	cmd := &cobra.Command{
		Use:          "navctl",
		Short:        "Inspect and edit tenant admin navigation",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&opts.store, "store", "", "store backend: mysql|sqlite (defaults to STORE)")
	cmd.PersistentFlags().StringVar(&opts.sqlitePath, "sqlite-path", "", "sqlite database file")
	cmd.PersistentFlags().StringVar(&opts.hooks, "hooks", "", "comma separated tree hooks")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log to stderr")

	cmd.AddCommand(newTreeCmd(&opts), newUpsertCmd(&opts), newSeedCmd(&opts), newHooksCmd())
	return cmd
}

func (o *rootOpts) open(ctx context.Context) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if o.store != "" {
		cfg.DB.Driver = o.store
	}
	if o.sqlitePath != "" {
		cfg.DB.SQLitePath = o.sqlitePath
	}
	if o.hooks != "" {
		cfg.TreeHooks = config.SplitList(o.hooks)
	}
	cfg.DB.SeedCore = false
	cfg.OverrideCacheTTL = 0
	if cfg.DB.Driver == "memory" {
		return nil, fmt.Errorf("navctl needs a persistent store; pass --store=sqlite or --store=mysql")
	}
	log := zap.NewNop()
	if o.verbose {
		if log, err = zap.NewDevelopment(); err != nil {
			return nil, err
		}
	}
	return app.New(ctx, cfg, log)
}

func newTreeCmd(opts *rootOpts) *cobra.Command {
	var tenant string
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print a tenant's navigation tree as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if tenant == "" {
				return fmt.Errorf("--tenant is required")
			}
			a, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()
			roots, err := a.Navigation.BuildForTenant(cmd.Context(), tenant)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), roots)
		},
	}
	cmd.Flags().StringVar(&tenant, "tenant", "", "tenant id")
	return cmd
}

func newUpsertCmd(opts *rootOpts) *cobra.Command {
	var plugin, file string
	cmd := &cobra.Command{
		Use:   "upsert",
		Short: "Store or remove a plugin's navigation entry from a descriptor file (- for stdin)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, err := readInput(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}
			var d model.PluginNavigationDescriptor
			if err := json.Unmarshal(raw, &d); err != nil {
				return fmt.Errorf("parse descriptor: %w", err)
			}
			a, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()
			item, err := a.Navigation.UpsertPluginNavigation(cmd.Context(), plugin, d)
			if err != nil {
				return err
			}
			if item == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "removed navigation for plugin %s\n", plugin)
				return nil
			}
			return printJSON(cmd.OutOrStdout(), item)
		},
	}
	cmd.Flags().StringVar(&plugin, "plugin", "", "plugin id")
	cmd.Flags().StringVarP(&file, "file", "f", "-", "descriptor JSON file")
	return cmd
}

func newSeedCmd(opts *rootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the default core navigation into an empty registry",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()
			n, err := db.SeedCoreNavigation(cmd.Context(), a.Store)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d core items\n", n)
			return nil
		},
	}
}

func newHooksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hooks",
		Short: "List available navigation tree hooks",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(hooks.Names(), "\n"))
		},
	}
}

func readInput(stdin io.Reader, file string) ([]byte, error) {
	if file == "" || file == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(file)
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
