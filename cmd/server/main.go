// Command server runs the guest Wi-Fi onboarding backend.
package main

import (
	"context"
	"log"

	"github.com/dmitrijs2005/guestwifi/internal/server"
	"github.com/dmitrijs2005/guestwifi/internal/server/config"
)

func main() {
	ctx := context.Background()

	app, err := server.NewApp(ctx, config.LoadConfig())
	if err != nil {
		log.Fatalf("guestwifi: %v", err)
	}

	app.Run(ctx)
}
