package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/agenthands/factwatch/internal/cli"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: could not read .env: %v\n", err)
	}
	os.Exit(cli.Execute())
}
