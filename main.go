package main

import (
	"os"

	"github.com/zonekeeper/zonekeeper/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
