// Command distsort sorts selected properties by distance from a CSV or
// spreadsheet without starting the web server.
package main

import (
	"fmt"
	"os"

	"github.com/JonMunkholm/distsort/internal/core"
	"github.com/joho/godotenv"
)

func main() {
	// A missing .env is normal for the CLI.
	_ = godotenv.Load()

	root := newRootCmd()
	if err := root.Execute(); err != nil {
		if core.IsUserFacing(err) {
			fmt.Fprintln(os.Stderr, core.FormatUserError(err))
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
