// Package main provides the entry point for the upgradecheck CLI.
package main

import (
	"os"

	"github.com/Aman-CERP/upgradecheck/cmd/upgradecheck/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
