package main

import (
	"context"
	"log"
	"os"

	"assetbridge/internal/daemonrun"
)

var version = "dev"

func main() {
	cfg, err := loadConfig(configPathFromEnv(os.Getenv))
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	if err := daemonrun.Run(context.Background(), cfg, daemonrun.Options{Version: version}); err != nil {
		log.Fatalf("assetbridged: %v", err)
	}
}
