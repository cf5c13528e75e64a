package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/secretkeeper/internal/server/admin"
	"github.com/dmitrijs2005/secretkeeper/internal/server/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()

	email, err := admin.EmailFlag(os.Args[1:])
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := admin.Run(ctx, cfg, email, os.Stdin, os.Stdout); err != nil {
		log.Fatalf("%v", err)
	}

}
