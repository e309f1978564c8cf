// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-docsync/internal/config"
	"github.com/MKhiriev/go-docsync/internal/logger"
	"github.com/MKhiriev/go-docsync/internal/service"
	"github.com/MKhiriev/go-docsync/models"
)

const clientRole = "docsync-client"

// cli holds the state shared by the commands of one invocation.
type cli struct {
	flagCfg   *config.StructuredConfig
	offline   bool
	buildInfo models.AppBuildInfo

	cfg *config.ClientConfig
	app *App
}

// NewRootCmd builds the docsync command tree.
func NewRootCmd(buildInfo models.AppBuildInfo) *cobra.Command {
	c := &cli{buildInfo: buildInfo}

	root := &cobra.Command{
		Use:   "docsync",
		Short: "Offline-first client of a document collection service",
		Long: `docsync keeps a local SQLite replica of remote document collections.
Writes are recorded locally and pushed to the service; pulls reconcile the
replica with the service.`,
		SilenceUsage:       true,
		PersistentPreRunE:  c.open,
		PersistentPostRunE: c.close,
	}

	c.flagCfg = config.BindClientFlags(root.PersistentFlags())
	root.PersistentFlags().BoolVar(&c.offline, "offline", false, "Do not contact the collection service")

	root.AddCommand(
		c.findCmd(),
		c.getCmd(),
		c.countCmd(),
		c.saveCmd(),
		c.removeCmd(),
		c.pushCmd(),
		c.pullCmd(),
		c.syncCmd(),
		c.pendingCmd(),
		c.clearSyncCmd(),
		c.clearCmd(),
		c.daemonCmd(),
		c.versionCmd(),
	)
	return root
}

func (c *cli) open(cmd *cobra.Command, _ []string) error {
	cfg, err := config.GetClientConfig(c.flagCfg)
	if err != nil {
		return fmt.Errorf("error getting configs: %w", err)
	}
	c.cfg = cfg

	log := logger.NewClientLogger(clientRole, cfg.LogFilePath)
	log.Debug().Any("config", cfg).Str("command", cmd.Name()).Msg("received configs")

	app, err := NewApp(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	if c.offline {
		app.SetOnline(false)
	}
	c.app = app
	return nil
}

func (c *cli) close(*cobra.Command, []string) error {
	if c.app == nil {
		return nil
	}
	err := c.app.Close()
	c.app = nil
	return err
}

func (c *cli) dataStore(collection string) (*service.DataStore, error) {
	if strings.TrimSpace(collection) == "" {
		return nil, service.ErrEmptyCollection
	}
	return c.app.DataStore(collection)
}

func (c *cli) pullOptions(autoPaginate bool) models.PullOptions {
	return models.PullOptions{
		UseDeltaFetch:  c.cfg.Sync.UseDeltaFetch,
		AutoPagination: autoPaginate,
		PageSize:       c.cfg.Sync.PageSize,
	}
}

func (c *cli) findCmd() *cobra.Command {
	var qf queryFlags
	cmd := &cobra.Command{
		Use:   "find <collection>",
		Short: "Find entities matching a query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := qf.query()
			if err != nil {
				return err
			}
			ds, err := c.dataStore(args[0])
			if err != nil {
				return err
			}
			found, err := lastValue(cmd, ds.Find(cmd.Context(), q))
			if err != nil {
				return err
			}
			if found == nil {
				found = []models.Entity{}
			}
			return printJSON(cmd.OutOrStdout(), found)
		},
	}
	qf.bind(cmd.Flags())
	return cmd
}

func (c *cli) getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <collection> <id>",
		Short: "Get one entity by id",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := c.dataStore(args[0])
			if err != nil {
				return err
			}
			e, err := lastValue(cmd, ds.FindByID(cmd.Context(), args[1]))
			if err != nil {
				return err
			}
			if e == nil {
				return fmt.Errorf("%w: %s/%s", service.ErrEntityNotFound, args[0], args[1])
			}
			return printJSON(cmd.OutOrStdout(), e)
		},
	}
}

func (c *cli) countCmd() *cobra.Command {
	var qf queryFlags
	cmd := &cobra.Command{
		Use:   "count <collection>",
		Short: "Count entities matching a query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := qf.query()
			if err != nil {
				return err
			}
			ds, err := c.dataStore(args[0])
			if err != nil {
				return err
			}
			n, err := lastValue(cmd, ds.Count(cmd.Context(), q))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), models.CountResponse{Count: n})
		},
	}
	qf.bind(cmd.Flags())
	return cmd
}

func (c *cli) saveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "save <collection> [entity-json|-]",
		Short: "Create or update an entity",
		Long: `Save creates the entity when it has no _id and updates it otherwise.
The entity is read from the argument, or from stdin when it is "-" or missing.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readEntityArg(cmd, args[1:])
			if err != nil {
				return err
			}
			e, err := models.DecodeEntity(raw)
			if err != nil {
				return err
			}
			ds, err := c.dataStore(args[0])
			if err != nil {
				return err
			}
			saved, err := ds.Save(cmd.Context(), e)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), saved)
		},
	}
}

func (c *cli) removeCmd() *cobra.Command {
	var qf queryFlags
	cmd := &cobra.Command{
		Use:   "remove <collection> [id]",
		Short: "Remove one entity by id, or every entity matching a query",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := c.dataStore(args[0])
			if err != nil {
				return err
			}

			var res models.RemoveResult
			if len(args) == 2 {
				res, err = ds.RemoveByID(cmd.Context(), args[1])
			} else {
				q, qerr := qf.query()
				if qerr != nil {
					return qerr
				}
				res, err = ds.Remove(cmd.Context(), q)
			}
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	qf.bind(cmd.Flags())
	return cmd
}

func (c *cli) pushCmd() *cobra.Command {
	var qf queryFlags
	cmd := &cobra.Command{
		Use:   "push <collection>",
		Short: "Push pending local changes to the collection service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := qf.query()
			if err != nil {
				return err
			}
			ds, err := c.dataStore(args[0])
			if err != nil {
				return err
			}
			results, err := ds.Push(cmd.Context(), q)
			if err != nil {
				return err
			}
			if results == nil {
				results = models.PushResults{}
			}
			return printJSON(cmd.OutOrStdout(), results)
		},
	}
	qf.bind(cmd.Flags())
	return cmd
}

func (c *cli) pullCmd() *cobra.Command {
	var qf queryFlags
	var autoPaginate bool
	cmd := &cobra.Command{
		Use:   "pull <collection>",
		Short: "Replace the local copy of a query result with the remote one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := qf.query()
			if err != nil {
				return err
			}
			ds, err := c.dataStore(args[0])
			if err != nil {
				return err
			}
			res, err := ds.Pull(cmd.Context(), q, c.pullOptions(autoPaginate))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	qf.bind(cmd.Flags())
	cmd.Flags().BoolVar(&autoPaginate, "auto-paginate", false, "Fetch the remote result page by page")
	return cmd
}

func (c *cli) syncCmd() *cobra.Command {
	var qf queryFlags
	var autoPaginate bool
	cmd := &cobra.Command{
		Use:   "sync <collection>",
		Short: "Push pending changes, then pull",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := qf.query()
			if err != nil {
				return err
			}
			ds, err := c.dataStore(args[0])
			if err != nil {
				return err
			}
			res, err := ds.Sync(cmd.Context(), q, c.pullOptions(autoPaginate))
			if err != nil {
				// push results are still worth showing when the pull fails
				_ = printJSON(cmd.OutOrStdout(), res)
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	qf.bind(cmd.Flags())
	cmd.Flags().BoolVar(&autoPaginate, "auto-paginate", false, "Fetch the remote result page by page")
	return cmd
}

func (c *cli) pendingCmd() *cobra.Command {
	var qf queryFlags
	var countOnly bool
	cmd := &cobra.Command{
		Use:   "pending <collection>",
		Short: "List the changes waiting to be pushed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := qf.query()
			if err != nil {
				return err
			}
			ds, err := c.dataStore(args[0])
			if err != nil {
				return err
			}
			if countOnly {
				n, err := ds.PendingSyncCount(cmd.Context(), q)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), models.CountResponse{Count: n})
			}
			records, err := ds.PendingSyncEntities(cmd.Context(), q)
			if err != nil {
				return err
			}
			if records == nil {
				records = []models.SyncRecord{}
			}
			return printJSON(cmd.OutOrStdout(), records)
		},
	}
	qf.bind(cmd.Flags())
	cmd.Flags().BoolVar(&countOnly, "count", false, "Print only the number of pending changes")
	return cmd
}

func (c *cli) clearSyncCmd() *cobra.Command {
	var qf queryFlags
	cmd := &cobra.Command{
		Use:   "clear-sync <collection>",
		Short: "Drop pending changes without pushing them",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := qf.query()
			if err != nil {
				return err
			}
			ds, err := c.dataStore(args[0])
			if err != nil {
				return err
			}
			n, err := ds.ClearSync(cmd.Context(), q)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), models.CountResponse{Count: n})
		},
	}
	qf.bind(cmd.Flags())
	return cmd
}

func (c *cli) clearCmd() *cobra.Command {
	var qf queryFlags
	cmd := &cobra.Command{
		Use:   "clear <collection>",
		Short: "Remove entities from the local replica only",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := qf.query()
			if err != nil {
				return err
			}
			ds, err := c.dataStore(args[0])
			if err != nil {
				return err
			}
			res, err := ds.Clear(cmd.Context(), q)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	qf.bind(cmd.Flags())
	return cmd
}

func (c *cli) daemonCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "Keep the configured collections in sync until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if c.app.services.Strategy() == service.StrategyNetwork {
				return fmt.Errorf("%w: the network strategy keeps no replica to sync", service.ErrOperationNotSupported)
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
			defer stop()
			return c.app.Run(ctx)
		},
	}
}

func (c *cli) versionCmd() *cobra.Command {
	noop := func(*cobra.Command, []string) error { return nil }
	return &cobra.Command{
		Use:                "version",
		Short:              "Print build information",
		Args:               cobra.NoArgs,
		PersistentPreRunE:  noop,
		PersistentPostRunE: noop,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprint(cmd.OutOrStdout(), c.buildInfo)
			return err
		},
	}
}

func readEntityArg(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 1 && args[0] != "-" {
		return []byte(args[0]), nil
	}
	return io.ReadAll(cmd.InOrStdin())
}

// lastValue drains a data store read and returns its last value. Errors
// that follow a value are printed as warnings; a read that yields no value
// at all fails with the joined errors.
func lastValue[T any](cmd *cobra.Command, seq iter.Seq2[T, error]) (T, error) {
	var (
		last T
		got  bool
		errs []error
	)
	for v, err := range seq {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		last, got = v, true
	}

	if !got {
		var zero T
		if len(errs) == 0 {
			return zero, errors.New("no result")
		}
		return zero, errors.Join(errs...)
	}
	for _, err := range errs {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
	}
	return last, nil
}

// Execute runs the command tree with a background context and exits with a
// non-zero status on error.
func Execute(buildInfo models.AppBuildInfo) {
	if err := NewRootCmd(buildInfo).ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
