package main

import (
	"fmt"
	"os"
)

func main() {
	app := NewApp()

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "flowcsv:", err)
		os.Exit(1)
	}
}
