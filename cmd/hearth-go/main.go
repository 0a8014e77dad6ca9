package main

import (
	"fmt"
	"os"

	"github.com/HearthApp/hearth-go/internal/application/startup"
)

func main() {
	if err := startup.Initialize(); err != nil {
		fmt.Fprintf(os.Stderr, "hearth-go: %v\n", err)
		os.Exit(1)
	}
}
