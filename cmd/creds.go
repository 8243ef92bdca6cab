package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	analytics "github.com/segmentio/analytics-go"
	"github.com/spf13/cobra"
)

const credProcessVersion = 1

var pretty bool

type credProcess struct {
	Version         int    `json:"Version"`
	AccessKeyID     string `json:"AccessKeyId"`
	SecretAccessKey string `json:"SecretAccessKey"`
	SessionToken    string `json:"SessionToken"`
	Expiration      string `json:"Expiration"`
}

// credsCmd represents the creds command
var credsCmd = &cobra.Command{
	Use:       "creds <monitor>",
	Short:     "creds generates a credential_process ready output for the monitor's anonymous credentials",
	RunE:      credsRun,
	Example:   "[profile rum]\ncredential_process = rum-agent creds web-shop",
	ValidArgs: listMonitorNames(mustListMonitors()),
}

func init() {
	RootCmd.AddCommand(credsCmd)
	credsCmd.Flags().BoolVarP(&pretty, "pretty", "p", false, "Pretty print display")
}

func credsRun(cmd *cobra.Command, args []string) error {
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
				Set("command", "creds"),
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

	cp := credProcess{
		Version:         credProcessVersion,
		AccessKeyID:     rec.AccessKeyID,
		SecretAccessKey: rec.SecretAccessKey,
		SessionToken:    rec.SessionToken,
		Expiration:      rec.Expiration.Format(time.RFC3339),
	}

	var output []byte
	if pretty {
		output, err = json.MarshalIndent(cp, "", "  ")
	} else {
		output, err = json.Marshal(cp)
	}
	if err != nil {
		return err
	}

	fmt.Println(string(output))
	return nil
}
