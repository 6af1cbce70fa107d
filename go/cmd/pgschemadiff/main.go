// pgschemadiff compares PostgreSQL schemas, declared as DDL files or read
// from live databases, and reports the differences.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/aidanmorri810/pgschemadiff/go/cmd/pgschemadiff/command"
)

func main() {
	err := command.Execute()
	if err == nil {
		return
	}
	var exit *command.ExitError
	if errors.As(err, &exit) {
		if exit.Err != nil {
			fmt.Fprintln(os.Stderr, exit.Err)
		}
		os.Exit(exit.Code)
	}
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
