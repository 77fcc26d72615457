package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	typeeqinternal "github.com/sublee/typeeq/internal/typeeq"
)

var Version = "dev"

func init() {
	typeeqinternal.Version = Version
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := newRootCommand()
	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return
	}

	if exitErr, ok := err.(*ExitError); !ok || !exitErr.Reported {
		fmt.Fprintln(os.Stderr, err)
	}
	stop()
	os.Exit(exitCode(err))
}
