// Command readrace-reset restores the reader's progression to its defaults.
// Unlocked badges and the selected title are kept. The engine must not be
// running against a badger store while this runs.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/heartmarshall/readrace/internal/app"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := app.ResetProgression(ctx); err != nil {
		log.Printf("readrace-reset: %v", err)
		os.Exit(1)
	}
}
