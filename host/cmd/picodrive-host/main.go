package main

import (
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"picodrive/config"
	"picodrive/core"
	"picodrive/protocol"
)

var (
	// Version stores the version string of this build. This should be set using -ldflags during compilation.
	Version string
	// Commit stores the current commit hash of this build. This should be set using -ldflags during compilation.
	Commit string
)

type options struct {
	Debug      bool   `long:"debug" description:"Enable debug logging"`
	ConfigFile string `short:"c" long:"config" description:"Path to the robot YAML config"`
}

var opts options

// loadRobotConfig sets up logging and loads the robot config named by the global options.
// Every command calls it first.
func loadRobotConfig() (*config.Config, error) {
	setupLogging()
	log.Debugf("picodrive-host %s (commit %s, protocol %s)", Version, Commit, protocol.Version)

	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		return nil, errors.Wrap(err, "could not load robot config")
	}
	log.WithField("system", "config").Debugf("Loaded config %+v", *cfg)
	return cfg, nil
}

// setupLogging applies the global options to the logger and routes
// the core debug hook into it
func setupLogging() {
	log.SetOutput(os.Stdout)
	log.SetLevel(log.InfoLevel)

	if opts.Debug {
		log.SetLevel(log.DebugLevel)
		log.Info("Setting debug mode.")
	}

	coreLog := log.WithField("system", "core")
	core.SetDebugWriter(func(msg string) {
		coreLog.Debug(msg)
	})
	core.SetDebugEnabled(opts.Debug)
}

// picodriveMain is the true entry point. This is required since defers
// created in the top-level scope of a main method aren't executed if os.Exit() is called.
func picodriveMain() error {
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.AddCommand("mix",
		"Mix a velocity command",
		"Runs a velocity command through the mixer and the configured channel wiring on recording drivers and prints the pin levels.",
		&mixCommand{}); err != nil {
		return errors.Wrap(err, "could not register mix command")
	}

	if _, err := parser.AddCommand("probe",
		"Probe the serial link",
		"Opens a transport session, writes a payload and reads back with a deadline.",
		&probeCommand{}); err != nil {
		return errors.Wrap(err, "could not register probe command")
	}

	_, err := parser.Parse()
	return err
}

func main() {
	// Call the "real" main in a nested manner so the defers will properly
	// be executed in the case of a graceful shutdown.
	if err := picodriveMain(); err != nil {
		if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrHelp {
			os.Exit(0)
		}
		log.WithError(err).Println("Failed running picodrive-host.")
		os.Exit(1)
	}
}
