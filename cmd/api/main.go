package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/bookstub/bms/internal/app"
)

func main() {
	// A missing .env file is fine, configuration falls back to flags and
	// the process environment.
	_ = godotenv.Load()

	err := app.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
