// Command shipdash is the operator client of the shipping dashboard. It
// keeps all collections in a local store and synchronizes them with the
// backend after every change.
package main

import (
	"os"
)

var (
	version   string
	buildDate string
)

func main() {
	a := newApp(os.Stdin, os.Stdout)
	defer a.close()
	if err := newRootCmd(a).Execute(); err != nil {
		os.Exit(1)
	}
}
