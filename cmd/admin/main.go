// Command techelevate-admin runs operator tasks against the platform
// database: schema migration, administrator bootstrap and revocation
// cleanup.
package main

import (
	"context"
	"os"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
