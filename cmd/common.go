package cmd

import (
	"fmt"

	"github.com/madhuhc/aws-rum-web/internal/credscache"
	"github.com/madhuhc/aws-rum-web/lib"
	"github.com/madhuhc/aws-rum-web/lib/provider"
)

func monitorConfig(monitor string) (lib.AppMonitors, error) {
	config, err := lib.NewConfigFromEnv()
	if err != nil {
		return nil, err
	}

	monitors, err := config.Parse()
	if err != nil {
		return nil, err
	}

	if _, ok := monitors[monitor]; !ok {
		return nil, fmt.Errorf("monitor '%s' not found in your config", monitor)
	}
	return monitors, nil
}

func createAnonymousProvider(monitor string, monitors lib.AppMonitors) (*provider.AnonymousProvider, error) {
	poolID, err := monitors.GetValue(monitor, "identity_pool_id")
	if err != nil {
		return nil, err
	}
	roleARN, err := monitors.GetValue(monitor, "guest_role_arn")
	if err != nil {
		return nil, err
	}

	kr, err := openKeyring(backend)
	if err != nil {
		return nil, err
	}

	store := &credscache.KeyringStore{Keyring: kr}
	return provider.NewAnonymousProvider(store, provider.AnonymousProviderOptions{
		PoolID:  poolID,
		RoleARN: roleARN,
	})
}
