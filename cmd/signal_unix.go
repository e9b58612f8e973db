//go:build !windows

package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
)

type trigger interface {
	Trigger()
}

// triggerOnSignal queues a refresh on every SIGUSR1.
func triggerOnSignal(ctx context.Context, t trigger) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGUSR1)
	defer signal.Stop(ch)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ch:
			log.Debug("Refresh requested by signal")
			t.Trigger()
		}
	}
}
