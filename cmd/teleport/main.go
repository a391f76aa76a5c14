package main

import (
	"os"

	"github.com/Zaba505/qsharp-bridge-go/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
