// Command ngflow round-trips Angular control flow through an external
// tag/attribute reformatter.
//
// Usage:
//
//	ngflow <template>            Restore a template through the reformatter
//	ngflow encode <template>     Print the intermediate XML
//	ngflow decode <file>         Print the template described by reformatter output
//	ngflow check [path...]       Check control-flow structure without reformatting
//	ngflow suite                 Run the regression harness
//
// Examples:
//
//	ngflow --tool unxml --format outline page.html
//	ngflow --tool xmllint --tool=--format page.html
//	ngflow check ./...
//	ngflow suite --update
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
)

const version = "0.1.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newApp(os.Stdout, os.Stderr).execute(ctx, os.Args[1:])
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
