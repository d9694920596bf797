/*
* Copyright (c) 2023-present unTill Pro, Ltd.
* @author Maxim Geraskin
 */

package cobrau

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nspersist/nspersist/pkg/goutils/logger"
)

// Executes command with context which is cancelled on SIGINT or SIGTERM.
// Command is expected to store pending player data before return
func ExecCommandAndCatchInterrupt(cmd *cobra.Command) error {
	return goAndCatchInterrupt(cmd.ExecuteContext, syscall.SIGINT, syscall.SIGTERM)
}

func goAndCatchInterrupt(f func(ctx context.Context) error, sigs ...os.Signal) (err error) {

	var signals = make(chan os.Signal, 1)

	ctx, cancel := context.WithCancel(context.Background())
	signal.Notify(signals, sigs...)
	defer signal.Stop(signals)

	wg := sync.WaitGroup{}
	wg.Add(1)
	go func() {
		defer wg.Done()
		err = f(ctx)
		cancel()
	}()

	select {
	case sig := <-signals:
		logger.Info("signal received:", sig)
		cancel()
	case <-ctx.Done():
	}
	logger.Verbose("waiting for command to finish...")
	wg.Wait()
	return err
}
