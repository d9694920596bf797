/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/nspersist/nspersist/pkg/goutils/filesu"
	"github.com/nspersist/nspersist/pkg/istorage"
	"github.com/nspersist/nspersist/pkg/istorage/bbolt"
	"github.com/nspersist/nspersist/pkg/istoragecache"
	imetrics "github.com/nspersist/nspersist/pkg/metrics"
	"github.com/nspersist/nspersist/pkg/pdata"
	"github.com/nspersist/nspersist/pkg/pdef"
	"github.com/nspersist/nspersist/pkg/sessions"
)

type storeContext struct {
	storage istorage.IPlayerStorage
	metrics imetrics.IMetrics
}

func openStore(cfg *pdtoolConfig) (*storeContext, error) {
	db, err := bbolt.Provide(bbolt.ParamsType{DBDir: cfg.DBDir})
	if err != nil {
		return nil, err
	}
	metrics := imetrics.Provide()
	return &storeContext{
		storage: istoragecache.Provide(cfg.CacheBytes, db, metrics, metricScope),
		metrics: metrics,
	}, nil
}

func (sc *storeContext) close(cfg *pdtoolConfig, stderr io.Writer) error {
	if cfg.Metrics {
		_ = sc.metrics.List(func(metric imetrics.IMetric, value float64) error {
			_, err := stderr.Write(imetrics.ToPrometheus(metric, value))
			return err
		})
	}
	return sc.storage.Close()
}

// Runs f with opened store, store is closed after f returns
func withStore(cmd *cobra.Command, cfg *pdtoolConfig, f func(ctx context.Context, sc *storeContext) error) (err error) {
	sc, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, sc.close(cfg, cmd.ErrOrStderr()))
	}()
	return f(cmd.Context(), sc)
}

func newStoreCmd(cfg *pdtoolConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Players database commands",
	}
	cmd.AddCommand(
		newStoreListCmd(cfg),
		newStoreExportCmd(cfg),
		newStoreImportCmd(cfg),
		newStoreDeleteCmd(cfg),
		newStoreGetCmd(cfg),
		newStoreSetCmd(cfg),
	)
	initStoreFlags(cmd, cfg)
	return cmd
}

func playerFlag(cmd *cobra.Command, player *string) {
	cmd.Flags().StringVarP(player, "player", "p", "", "Player name")
}

func checkPlayer(player string) error {
	if player == "" {
		return ErrPlayerRequired
	}
	return nil
}

func newStoreListCmd(cfg *pdtoolConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored players",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, cfg, func(ctx context.Context, sc *storeContext) error {
				return sc.storage.Read(ctx, func(player string, blob []byte) error {
					_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d bytes\n", player, len(blob))
					return err
				})
			})
		},
	}
}

func newStoreExportCmd(cfg *pdtoolConfig) *cobra.Command {
	player := ""
	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Write stored player data to file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkPlayer(player); err != nil {
				return err
			}
			return withStore(cmd, cfg, func(ctx context.Context, sc *storeContext) error {
				blob, ok, err := sc.storage.Get(ctx, player)
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("%w: «%s»", ErrPlayerNotFound, player)
				}
				return os.WriteFile(args[0], blob, filesu.FileMode_OwnerWrite)
			})
		},
	}
	playerFlag(cmd, &player)
	return cmd
}

func newStoreImportCmd(cfg *pdtoolConfig) *cobra.Command {
	player := ""
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Store player data from file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkPlayer(player); err != nil {
				return err
			}
			blob, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			if err := pdata.New().UnmarshalBinary(blob); err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			return withStore(cmd, cfg, func(ctx context.Context, sc *storeContext) error {
				return sc.storage.Put(ctx, player, blob)
			})
		},
	}
	playerFlag(cmd, &player)
	return cmd
}

func newStoreDeleteCmd(cfg *pdtoolConfig) *cobra.Command {
	player := ""
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete stored player data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkPlayer(player); err != nil {
				return err
			}
			return withStore(cmd, cfg, func(ctx context.Context, sc *storeContext) error {
				return sc.storage.Delete(ctx, player)
			})
		},
	}
	playerFlag(cmd, &player)
	return cmd
}

// Joins player, calls f with acquired session and leaves
func withSession(cmd *cobra.Command, cfg *pdtoolConfig, player string, f func(pdef.ISchema, *sessions.Session) error) error {
	if err := checkPlayer(player); err != nil {
		return err
	}
	schema, m, err := mustLoadSchema(cfg)
	if err != nil {
		return err
	}
	return withStore(cmd, cfg, func(ctx context.Context, sc *storeContext) error {
		mgr := sessions.New(sessions.Params{
			Schema:  schema,
			Storage: sc.storage,
			Enabled: m,
			Metrics: sc.metrics,
		})
		if _, err := mgr.Join(ctx, player); err != nil {
			return err
		}
		s, err := mgr.Acquire(player)
		if err != nil {
			return err
		}
		for _, r := range s.Resets() {
			fmt.Fprintln(cmd.ErrOrStderr(), r)
		}
		err = f(schema, s)
		s.Release()
		if err != nil {
			return err
		}
		return mgr.Leave(ctx, player)
	})
}

func newStoreGetCmd(cfg *pdtoolConfig) *cobra.Command {
	player := ""
	cmd := &cobra.Command{
		Use:   "get",
		Short: "Join player, print resolved values and leave",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, cfg, player, func(_ pdef.ISchema, s *sessions.Session) error {
				return printValues(cmd.OutOrStdout(), s.Data())
			})
		},
	}
	playerFlag(cmd, &player)
	return cmd
}

func newStoreSetCmd(cfg *pdtoolConfig) *cobra.Command {
	player := ""
	cmd := &cobra.Command{
		Use:   "set <identifier> <value>",
		Short: "Join player, set value and leave",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, cfg, player, func(schema pdef.ISchema, s *sessions.Session) error {
				return setValue(schema, s.Data(), args[0], args[1])
			})
		},
	}
	playerFlag(cmd, &player)
	return cmd
}
