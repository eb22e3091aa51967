package main

import (
	"log"

	"github.com/AtRiskMedia/devlog-go/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		log.Fatalf("devlog-go: %v", err)
	}
}
