package main

import (
	"flag"
	"log"
	"os"

	"github.com/pricewise-go/pricewise/internal/app"
)

func main() {
	configPath := flag.String("config", os.Getenv("PRICEWISE_CONFIG"), "path to config file (optional)")
	flag.Parse()

	if err := app.Run(*configPath); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}
