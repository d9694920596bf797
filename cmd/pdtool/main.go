/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package main

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nspersist/nspersist/pkg/goutils/cobrau"
	"github.com/nspersist/nspersist/pkg/goutils/logger"
)

//go:embed version
var version string

func main() {
	if err := execRootCmd(os.Args, version); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func execRootCmd(args []string, ver string) error {
	rootCmd, err := prepareRootCmd(args, ver)
	if err != nil {
		return err
	}
	return cobrau.ExecCommandAndCatchInterrupt(rootCmd)
}

// Environment is read before flags are defined, so flags override it
func prepareRootCmd(args []string, ver string) (*cobra.Command, error) {
	cfg, err := readConfig()
	if err != nil {
		return nil, err
	}
	return cobrau.PrepareRootCmd(
		"pdtool",
		"modded persistence data tool",
		args,
		ver,
		func() error {
			level, err := logger.ParseLogLevel(cfg.LogLevel)
			if err != nil {
				return err
			}
			logger.SetLogLevel(level)
			return nil
		},
		newSchemaCmd(&cfg),
		newDataCmd(&cfg),
		newStoreCmd(&cfg),
	), nil
}
