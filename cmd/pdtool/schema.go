/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nspersist/nspersist/pkg/pdef"
)

func newSchemaCmd(cfg *pdtoolConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Schema commands",
	}
	cmd.AddCommand(newSchemaCheckCmd(cfg), newSchemaDumpCmd(cfg), newSchemaFindCmd(cfg))
	initSchemaFlags(cmd, cfg)
	return cmd
}

func newSchemaCheckCmd(cfg *pdtoolConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Load base schema and enabled mods, report errors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, _, err := loadSchema(cfg)
			if schema != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "%d leaves from %d sources\n", len(schema.Definitions()), len(schema.Sources()))
			}
			return err
		},
	}
}

func newSchemaDumpCmd(cfg *pdtoolConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "dump",
		Short: "Print merged schema as pdef and pdiff sources",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, _, err := mustLoadSchema(cfg)
			if err != nil {
				return err
			}
			for _, st := range schema.Dump() {
				source := st.Source
				if source == "" {
					source = "<base>"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "// source: %s\n%s\n", source, st.Text)
			}
			return nil
		},
	}
}

func newSchemaFindCmd(cfg *pdtoolConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "find <identifier>",
		Short: "Print leaf definition by any of its spellings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, _, err := mustLoadSchema(cfg)
			if err != nil {
				return err
			}
			def, ok := schema.FindDefinition(args[0])
			if !ok {
				return fmt.Errorf("%w: «%s»", pdef.ErrDefinitionNotFound, args[0])
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "identifier:", def.Identifier)
			fmt.Fprintln(out, "kind:", def.Kind.TrimString())
			switch def.Kind {
			case pdef.VarKind_String:
				fmt.Fprintln(out, "capacity:", def.Capacity)
			case pdef.VarKind_Enum:
				fmt.Fprintf(out, "enum: %s {%s}\n", def.Enum, strings.Join(def.EnumMembers, ", "))
			}
			if def.IsBase() {
				fmt.Fprintln(out, "sources: <base>")
			} else {
				fmt.Fprintln(out, "sources:", strings.Join(def.Dependencies, ", "))
			}
			if aliases := schema.Aliases(def.Identifier); len(aliases) > 0 {
				fmt.Fprintln(out, "aliases:", strings.Join(aliases, ", "))
			}
			return nil
		},
	}
}
