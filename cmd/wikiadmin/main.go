// Package main is the wikiadmin command line: admin listings, dashboard
// statistics, schema migrations and token issuing against the wikihost database.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
