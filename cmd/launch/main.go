package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"

	startrek "github.com/Andezion/StarTrek"
	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// This code effectively only reads the scenario files and flies the missions.

const defaultScenario = "~~unset~~"

var (
	scenarios string
	verbose   bool
)

func init() {
	// Read flags
	flag.StringVar(&scenarios, "scenario", defaultScenario, "comma separated scenario TOML files (unset flies the reference vehicle)")
	flag.BoolVar(&verbose, "verbose", false, "really verbose (esp. for configuration)")
}

func main() {
	flag.Parse()

	logger := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stderr))
	logger = kitlog.With(logger, "ts", kitlog.DefaultTimestampUTC)
	if verbose {
		logger = level.NewFilter(logger, level.AllowDebug())
	} else {
		logger = level.NewFilter(logger, level.AllowInfo())
	}

	// Load scenarios
	var loaded []startrek.Scenario
	if scenarios == defaultScenario {
		loaded = append(loaded, startrek.ReferenceScenario())
	} else {
		for _, path := range strings.Split(scenarios, ",") {
			sc, err := startrek.LoadScenario(strings.TrimSpace(path))
			if err != nil {
				log.Fatal(err)
			}
			loaded = append(loaded, sc)
		}
	}

	missions := make([]*startrek.Mission, len(loaded))
	for i, sc := range loaded {
		level.Debug(logger).Log("subsys", "conf", "scenario", sc.Name, "rocket", sc.Rocket, "planet", sc.Planet, "lat", sc.Latitude, "lon", sc.Longitude, "alt", sc.Altitude, "epoch", sc.Epoch, "step", sc.Step, "guidance", sc.Guidance)
		m, err := sc.Mission(logger)
		if err != nil {
			log.Fatalf("%s: %s", sc.Name, err)
		}
		missions[i] = m
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	outcomes, err := startrek.RunFleet(ctx, missions)
	for _, out := range outcomes {
		fmt.Println(out)
	}
	if err != nil {
		log.Fatal(err)
	}
}
