/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package main

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/cobra"
)

type pdtoolConfig struct {
	// Base schema path, overrides manifest base
	BaseSchema string `env:"BASE_SCHEMA"`
	ModsDir    string `env:"MODS_DIR" envDefault:"."`
	Manifest   string `env:"MODS_MANIFEST" envDefault:"mods.yaml"`
	DBDir      string `env:"DB_DIR" envDefault:"pdtool-db"`
	CacheBytes int    `env:"CACHE_BYTES" envDefault:"33554432"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`
	Metrics    bool   `env:"METRICS"`
}

func readConfig() (cfg pdtoolConfig, err error) {
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: envPrefix}); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

func initSchemaFlags(cmd *cobra.Command, cfg *pdtoolConfig) {
	cmd.PersistentFlags().StringVar(&cfg.ModsDir, "mods-dir", cfg.ModsDir, "Folder with manifest, base schema and mod pdiff files")
	cmd.PersistentFlags().StringVar(&cfg.Manifest, "manifest", cfg.Manifest, "Mods manifest path relative to mods folder")
	cmd.PersistentFlags().StringVar(&cfg.BaseSchema, "base", cfg.BaseSchema, "Base schema path relative to mods folder, overrides manifest base")
}

func initStoreFlags(cmd *cobra.Command, cfg *pdtoolConfig) {
	initSchemaFlags(cmd, cfg)
	cmd.PersistentFlags().StringVar(&cfg.DBDir, "db-dir", cfg.DBDir, "Players database folder")
	cmd.PersistentFlags().IntVar(&cfg.CacheBytes, "cache-bytes", cfg.CacheBytes, "Players blob cache size")
	cmd.PersistentFlags().BoolVar(&cfg.Metrics, "metrics", cfg.Metrics, "Print metrics after command")
}
