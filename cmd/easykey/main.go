// Command easykey reads a WORLDE easy key style control surface and streams its
// buttons and dial as one-byte events to stdout or a file.
package main

import (
	"github.com/alecthomas/kong"
	kongyaml "github.com/alecthomas/kong-yaml"
)

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("easykey"),
		kong.Description("Translate control surface input into compact controller events"),
		kong.UsageOnError(),
		// Flags and env vars override values from the config file.
		kong.Configuration(kongyaml.Loader, "/etc/easykey/config.yaml", "~/.config/easykey/config.yaml"),
	)
	ctx.FatalIfErrorf(ctx.Run())
}
