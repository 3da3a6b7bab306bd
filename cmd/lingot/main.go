package main

import (
	"os"

	"otter.camp/lingot/internal/app"
)

func main() {
	os.Exit(app.Run(os.Args[1:]))
}
