package cmd

import (
	"github.com/aws/aws-sdk-go/aws/credentials"
	analytics "github.com/segmentio/analytics-go"
	"github.com/spf13/cobra"

	"github.com/madhuhc/aws-rum-web/lib/dispatch"
	"github.com/madhuhc/aws-rum-web/lib/events"
	"github.com/madhuhc/aws-rum-web/lib/identity"
)

var (
	eventCount int
	endpoint   string
)

// recordCmd represents the record command
var recordCmd = &cobra.Command{
	Use:       "record <monitor>",
	Short:     "record captures a session-start batch and dispatches it to the monitor's RUM endpoint",
	RunE:      recordRun,
	Example:   "rum-agent record web-shop --count 3",
	ValidArgs: listMonitorNames(mustListMonitors()),
}

func init() {
	RootCmd.AddCommand(recordCmd)
	recordCmd.Flags().IntVarP(&eventCount, "count", "c", 1, "Number of session-start events to record")
	recordCmd.Flags().StringVarP(&endpoint, "endpoint", "e", "", "Override the RUM data plane endpoint")
}

func recordRun(cmd *cobra.Command, args []string) error {
	if len(args) < 1 {
		return ErrTooFewArguments
	}
	monitor := args[0]

	monitors, err := monitorConfig(monitor)
	if err != nil {
		return err
	}

	appMonitorID, err := monitors.GetValue(monitor, "app_monitor_id")
	if err != nil {
		return err
	}
	poolID, err := monitors.GetValue(monitor, "identity_pool_id")
	if err != nil {
		return err
	}
	region, err := identity.RegionFromPoolID(poolID)
	if err != nil {
		return err
	}

	if endpoint == "" {
		if configured, err := monitors.GetValue(monitor, "endpoint"); err == nil {
			endpoint = configured
		}
	}

	if analyticsEnabled && analyticsClient != nil {
		analyticsClient.Enqueue(analytics.Track{
			UserId: username,
			Event:  "Ran Command",
			Properties: analytics.NewProperties().
				Set("backend", backend).
				Set("rum-agent-version", version).
				Set("monitor", monitor).
				Set("command", "record"),
		})
	}

	p, err := createAnonymousProvider(monitor, monitors)
	if err != nil {
		return err
	}

	buffer := events.NewBuffer(events.DefaultBufferLimit)
	registry := events.NewRegistry(buffer)

	plugin := events.NewSessionStartPlugin()
	if err := registry.AddPlugin(plugin); err != nil {
		return err
	}
	for i := 1; i < eventCount; i++ {
		plugin.Restart()
	}

	dispatcher := dispatch.NewDispatcher(credentials.NewCredentials(p), buffer, dispatch.DispatcherOptions{
		Endpoint:     endpoint,
		Region:       region,
		AppMonitorID: appMonitorID,
	})

	return dispatcher.Flush()
}
