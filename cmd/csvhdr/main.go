// Command csvhdr inspects delimited files and reports whether their first
// row is a header.
package main

import (
	"fmt"
	"os"

	"github.com/JonMunkholm/csvimport/internal/core"
)

func main() {
	if err := newRootCmd(os.LookupEnv).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, core.FormatUserError(err))
		os.Exit(1)
	}
}
