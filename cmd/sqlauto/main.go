// sqlauto generates Sequelize models from a database schema.
//
//	sqlauto generate --dialect postgres --dsn "$DSN" -o ./models -l ts
//	sqlauto inspect --dialect sqlite --dsn file:app.db --out tables.yaml
//	sqlauto generate --input tables.yaml --watch
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
