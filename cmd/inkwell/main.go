package main

import (
	"flag"
	"os"

	"github.com/inkwell-hq/inkwell/blogservice"
	"github.com/inkwell-hq/inkwell/internal/logger"
)

func main() {
	// Optional build-target flag override (local | cloud)
	buildTarget := flag.String("build-target", "", "Override BUILD_TARGET (local, cloud)")
	flag.Parse()
	if *buildTarget != "" {
		os.Setenv("INKWELL_BUILD_TARGET", *buildTarget)
	}

	if err := blogservice.Run(); err != nil {
		log := logger.New("inkwell")
		log.Fatal().Err(err).Msg("service exited with error")
	}
}
