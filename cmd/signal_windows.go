package cmd

import "context"

type trigger interface {
	Trigger()
}

func triggerOnSignal(ctx context.Context, t trigger) {
	<-ctx.Done()
}
