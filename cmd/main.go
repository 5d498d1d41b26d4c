package main

import (
	"context"
	"log"

	"finbot/internal/app"
)

func main() {
	ctx := context.Background()

	a, err := app.NewApp(ctx)
	if err != nil {
		log.Fatalf("❌ Failed to init app: %v", err)
	}

	if err := a.Run(); err != nil {
		log.Fatalf("❌ App run error: %v", err)
	}
}
