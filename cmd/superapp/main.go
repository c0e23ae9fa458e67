package main

import "github.com/amimagid/ami-super-app/internal/cli"

// Version info (set during build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	cli.Execute(Version, BuildTime)
}
