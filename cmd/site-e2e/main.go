// site-e2e runs the browser smoke crawl, installs browsers and serves the local
// replica site used by the end-to-end suite.
package main

import (
	"fmt"
	"os"

	"github.com/kuitang/site-e2e/internal/errs"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "site-e2e: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps an error to the process exit status by its errs code.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	return errs.ExitCode(errs.CodeOf(err))
}
