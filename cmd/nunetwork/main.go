package main

import (
	"context"
	"log"

	"github.com/dalemusser/waffle/app"
	"github.com/mav910623/nunetwork/internal/app/bootstrap"
)

func main() {
	if err := app.Run(context.Background(), bootstrap.Hooks); err != nil {
		log.Fatal(err)
	}
}
