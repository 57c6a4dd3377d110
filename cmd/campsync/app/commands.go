package app

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/zeltlager-spelle/campsync"
	"github.com/zeltlager-spelle/campsync/internal/generate"
	"github.com/zeltlager-spelle/campsync/internal/snapshot"
	"github.com/zeltlager-spelle/campsync/pkg/errors"
	"github.com/zeltlager-spelle/campsync/pkg/logging"
	"github.com/zeltlager-spelle/campsync/pkg/store"
	"github.com/zeltlager-spelle/campsync/pkg/store/memory"
)

// NewSyncCommand creates the sync command, the daemon mode of campsync.
func (a *App) NewSyncCommand() *cobra.Command {
	var (
		once   bool
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Mirror Campflow registrations into the spreadsheet",
		Long: `Sync polls the Campflow API and keeps the spreadsheet's team list
in step with it.

Each cycle orders the active registrations by creation time, assigns the
first places to the reserved block and the rest to the waitlist, and writes
only the cells whose content changed. Rows are colored green for paid teams
and red for unpaid ones. An unchanged registration list is detected by
fingerprint and skipped without touching the spreadsheet.`,
		Example: `  campsync sync
  campsync sync --once
  campsync sync --dry-run --once
  campsync sync --interval 2s --snapshot ./persons.csv`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := logging.WithLogger(cmd.Context(), a.logger)
			ctx = logging.WithEvent(ctx, a.config.EventID)
			if !dryRun {
				ctx = logging.WithSpreadsheet(ctx, a.config.SpreadsheetID)
			}

			client, err := a.Campflow()
			if err != nil {
				return err
			}

			var st store.Store
			if dryRun {
				st = memory.New(memory.WithLayout(a.Layout()))
			} else {
				st, err = a.SheetsStore()
				if err != nil {
					return err
				}
			}

			opts := []campsync.Option{
				campsync.WithSource(client),
				campsync.WithStore(st),
				campsync.WithInterval(a.config.PollInterval),
				campsync.WithLayout(a.Layout()),
			}
			if a.config.SnapshotPath != "" {
				opts = append(opts, campsync.WithSnapshot(
					snapshot.New(a.config.SnapshotPath), a.config.SnapshotEvery))
			}

			syncer, err := campsync.New(opts...)
			if err != nil {
				return err
			}

			if once {
				if err := st.Ensure(ctx); err != nil {
					return err
				}
				result, err := syncer.Tick(ctx)
				if err != nil {
					return err
				}
				if result.Skipped {
					fmt.Println("unchanged")
					return nil
				}
				fmt.Printf("%d rows, %d cell updates (%s)\n",
					result.Rows, result.Updates, result.Summary)
				return nil
			}

			err = syncer.Run(ctx)
			if errors.Is(err, context.Canceled) {
				// Interrupted by signal; the normal way to stop the daemon.
				return nil
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&once, "once", false, "run a single sync cycle and exit")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "reconcile against an in-memory sheet instead of Google Sheets")
	cmd.Flags().DurationVar(&a.config.PollInterval, "interval", a.config.PollInterval, "pause between sync cycles")
	cmd.Flags().StringVar(&a.config.SnapshotPath, "snapshot", a.config.SnapshotPath, "CSV file for periodic raw-data snapshots")
	cmd.Flags().DurationVar(&a.config.SnapshotEvery, "snapshot-every", a.config.SnapshotEvery, "minimum time between snapshots")

	return cmd
}

// NewFetchCommand creates the fetch command for ad-hoc API inspection.
func (a *App) NewFetchCommand() *cobra.Command {
	var listKeys bool

	cmd := &cobra.Command{
		Use:   "fetch [subpath]",
		Short: "Query a Campflow sub-resource and dump the JSON",
		Long: `Fetch retrieves any sub-resource of the configured list from the
Campflow API and prints the response.

The subpath is relative to lists/<event-id>/ and defaults to "persons".
An empty subpath ("") addresses the list object itself.`,
		Example: `  campsync fetch
  campsync fetch persons/per_AbCdEf123
  campsync fetch "" --keys
  campsync fetch labels`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := logging.WithLogger(cmd.Context(), a.logger)

			subpath := "persons"
			if len(args) == 1 {
				subpath = args[0]
			}

			client, err := a.Campflow()
			if err != nil {
				return err
			}

			body, err := client.Get(ctx, subpath)
			if err != nil {
				return err
			}

			if listKeys {
				return printKeys(cmd, body)
			}
			return printPretty(cmd, body)
		},
	}

	cmd.Flags().BoolVarP(&listKeys, "keys", "k", false, "list top-level keys and _links instead of dumping full JSON")

	return cmd
}

// NewGenerateCommand creates the generate command for seeding test data.
func (a *App) NewGenerateCommand() *cobra.Command {
	var (
		poolFile string
		seed     int64
	)

	cmd := &cobra.Command{
		Use:   "generate <count>",
		Short: "Create random test registrations in Campflow",
		Long: `Generate creates random attendee registrations in the configured
Campflow list, for exercising the sync against realistic data volumes.

Names, teams and villages are drawn from built-in sample pools; a YAML
file given with --pool overrides any subset of them.`,
		Example: `  campsync generate 90
  campsync generate 10 --pool pools.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := logging.WithLogger(cmd.Context(), a.logger)

			count, err := strconv.Atoi(args[0])
			if err != nil || count <= 0 {
				return &errors.ValidationError{Field: "count", Value: args[0], Message: "count must be a positive integer"}
			}

			pools := generate.DefaultPools()
			if poolFile != "" {
				pools, err = generate.LoadPools(poolFile)
				if err != nil {
					return err
				}
			}

			client, err := a.Campflow()
			if err != nil {
				return err
			}

			gen, err := generate.New(client, pools, seed)
			if err != nil {
				return err
			}

			if err := gen.Run(ctx, count); err != nil {
				return err
			}

			fmt.Printf("created %d attendees in %s\n", count, a.config.EventID)
			return nil
		},
	}

	cmd.Flags().StringVar(&poolFile, "pool", "", "YAML file overriding the built-in name pools")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed for reproducible runs")

	return cmd
}

// NewVersionCommand creates the version command.
func (a *App) NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("campsync version %s\n", a.version)
			cmd.Printf("commit: %s\n", a.commit)
			cmd.Printf("built: %s\n", a.date)
		},
	}
}

// printPretty re-indents a raw JSON response for the terminal.
func printPretty(cmd *cobra.Command, body []byte) error {
	var obj any
	if err := json.Unmarshal(body, &obj); err != nil {
		// Not JSON after all; dump as-is.
		cmd.Println(strings.TrimSpace(string(body)))
		return nil
	}
	out, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		return err
	}
	cmd.Println(string(out))
	return nil
}

// printKeys prints the top-level keys of a JSON object and, when present,
// the names of its HAL-style _links.
func printKeys(cmd *cobra.Command, body []byte) error {
	var obj any
	if err := json.Unmarshal(body, &obj); err != nil {
		return &errors.ParseError{Format: "json", Subject: "response body", Err: err}
	}

	m, ok := obj.(map[string]any)
	if !ok {
		cmd.Printf("(response is a %T, no further structure to list)\n", obj)
		return nil
	}

	var keys []string
	for k := range m {
		if k != "_links" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	if len(keys) > 0 {
		cmd.Println("keys :", strings.Join(keys, ", "))
	}

	if links, ok := m["_links"].(map[string]any); ok {
		var names []string
		for k := range links {
			names = append(names, k)
		}
		sort.Strings(names)
		cmd.Println("links:", strings.Join(names, ", "))
	}

	return nil
}
