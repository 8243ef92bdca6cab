package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/alessio/shellescape"
	analytics "github.com/segmentio/analytics-go"
	"github.com/spf13/cobra"

	"github.com/madhuhc/aws-rum-web/lib/identity"
)

// envCmd represents the env command
var envCmd = &cobra.Command{
	Use:       "env <monitor>",
	Short:     "env prints out export commands for the monitor's anonymous credentials",
	RunE:      envRun,
	Example:   "source <$(rum-agent env web-shop)",
	ValidArgs: listMonitorNames(mustListMonitors()),
}

func printExport(varName, varValue string) {
	exportString := "export %s=%s\n"
	myShell, hasShell := os.LookupEnv("SHELL")
	if hasShell && strings.Contains(myShell, "fish") {
		exportString = "set -x %s %s\n"
	}
	fmt.Printf(exportString, varName, shellescape.Quote(varValue))
}

func init() {
	RootCmd.AddCommand(envCmd)
}

func envRun(cmd *cobra.Command, args []string) error {
	if len(args) < 1 {
		return ErrTooFewArguments
	}
	monitor := args[0]

	monitors, err := monitorConfig(monitor)
	if err != nil {
		return err
	}

	if analyticsEnabled && analyticsClient != nil {
		analyticsClient.Enqueue(analytics.Track{
			UserId: username,
			Event:  "Ran Command",
			Properties: analytics.NewProperties().
				Set("backend", backend).
				Set("rum-agent-version", version).
				Set("monitor", monitor).
				Set("command", "env"),
		})
	}

	p, err := createAnonymousProvider(monitor, monitors)
	if err != nil {
		return err
	}

	rec, err := p.GetCredentials()
	if err != nil {
		return err
	}

	printExport("AWS_ACCESS_KEY_ID", rec.AccessKeyID)
	printExport("AWS_SECRET_ACCESS_KEY", rec.SecretAccessKey)
	printExport("AWS_SESSION_TOKEN", rec.SessionToken)

	poolID, _ := monitors.GetValue(monitor, "identity_pool_id")
	if region, err := identity.RegionFromPoolID(poolID); err == nil {
		printExport("AWS_DEFAULT_REGION", region)
	}

	return nil
}
