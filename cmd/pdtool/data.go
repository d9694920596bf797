/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package main

import (
	"github.com/spf13/cobra"

	"github.com/nspersist/nspersist/pkg/pdata"
)

func newDataCmd(cfg *pdtoolConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "data",
		Short: "Player data file commands",
	}
	cmd.AddCommand(newDataDumpCmd(cfg), newDataSetCmd(cfg), newDataInitCmd(cfg))
	initSchemaFlags(cmd, cfg)
	return cmd
}

func newDataDumpCmd(cfg *pdtoolConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "dump <file>",
		Short: "Print resolved values of player data file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, m, err := mustLoadSchema(cfg)
			if err != nil {
				return err
			}
			inst, err := readDataFile(args[0])
			if err != nil {
				return err
			}
			if err := resolve(inst, schema, m, cmd.ErrOrStderr()); err != nil {
				return err
			}
			return printValues(cmd.OutOrStdout(), inst)
		},
	}
}

func newDataSetCmd(cfg *pdtoolConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "set <file> <identifier> <value>",
		Short: "Set value in player data file",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, m, err := mustLoadSchema(cfg)
			if err != nil {
				return err
			}
			inst, err := readDataFile(args[0])
			if err != nil {
				return err
			}
			if err := resolve(inst, schema, m, cmd.ErrOrStderr()); err != nil {
				return err
			}
			if err := setValue(schema, inst, args[1], args[2]); err != nil {
				return err
			}
			return writeDataFile(args[0], inst)
		},
	}
}

func newDataInitCmd(cfg *pdtoolConfig) *cobra.Command {
	defaults := false
	cmd := &cobra.Command{
		Use:   "init <file>",
		Short: "Write empty player data file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inst := pdata.New()
			if defaults {
				schema, m, err := mustLoadSchema(cfg)
				if err != nil {
					return err
				}
				if err := resolve(inst, schema, m, cmd.ErrOrStderr()); err != nil {
					return err
				}
			}
			return writeDataFile(args[0], inst)
		},
	}
	cmd.Flags().BoolVar(&defaults, "defaults", false, "Store schema default values")
	return cmd
}
