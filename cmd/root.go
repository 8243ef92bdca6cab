package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/user"

	analytics "github.com/segmentio/analytics-go"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/madhuhc/aws-rum-web/lib"
)

// Errors returned from frontend commands
var (
	ErrTooFewArguments  = errors.New("too few arguments")
	ErrTooManyArguments = errors.New("too many arguments")
)

// global flags
var (
	backend string
	debug   bool
)

var (
	version          string
	analyticsEnabled bool
	analyticsClient  analytics.Client
	username         string
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:           "rum-agent",
	Short:         "rum-agent ships real user monitoring telemetry using anonymous AWS credentials",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute(vers string, writeKey string) {
	version = vers
	RootCmd.Version = version

	if writeKey != "" {
		analyticsEnabled = true
		analyticsClient = analytics.New(writeKey)
		if u, err := user.Current(); err == nil {
			username = u.Username
		}
		defer analyticsClient.Close()
	}

	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		switch err {
		case ErrTooFewArguments, ErrTooManyArguments:
			RootCmd.Usage()
		}
		os.Exit(1)
	}
}

func prerun(cmd *cobra.Command, args []string) {
	if debug {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	// Load backend from env var if not set as a flag
	if !cmd.Flags().Lookup("backend").Changed {
		if backendFromEnv, ok := os.LookupEnv("AWS_RUM_BACKEND"); ok {
			backend = backendFromEnv
		}
	}
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&backend, "backend", "b", "", "Secret backend to use for the credential cache")
	RootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Enable debug logging")
	RootCmd.PersistentPreRun = prerun
}

func mustListMonitors() lib.AppMonitors {
	config, err := lib.NewConfigFromEnv()
	if err != nil {
		log.Panicf("error loading config: %s", err)
	}
	monitors, err := config.Parse()
	if err != nil {
		log.Panicf("error parsing config: %s", err)
	}
	return monitors
}

func listMonitorNames(monitors lib.AppMonitors) []string {
	names := []string{}
	for name := range monitors {
		names = append(names, name)
	}
	return names
}
