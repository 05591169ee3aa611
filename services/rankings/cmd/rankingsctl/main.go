// Command rankingsctl inspects and drives the rankings service from a shell:
// fetch one list, test the matcher, build the aggregate and drop cache keys.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

func main() {
	cmd, cleanup := newRootCommand()
	err := cmd.Execute()
	cleanup()
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
