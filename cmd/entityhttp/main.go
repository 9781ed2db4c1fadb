// Command entityhttp sends requests through the per-entity HTTP clients
// declared in a service configuration file.
package main

import (
	"os"

	"github.com/kbukum/entityhttp/cmd/entityhttp/app"
	"github.com/kbukum/entityhttp/httpclient"
)

func main() {
	if err := app.NewEntityHTTPCommand().Execute(); err != nil {
		httpclient.LogError(err)
		os.Exit(1)
	}
}
