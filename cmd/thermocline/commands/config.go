// Package commands implements the thermocline subcommands.
package commands

import (
	"fmt"
	"path/filepath"

	"github.com/chrissnell/thermocline/pkg/config"
)

// Globals holds the persistent flags shared by every subcommand.
type Globals struct {
	ConfigFile string
	Debug      bool
}

func loadConfig(cfgFile string) (*config.ConfigData, error) {
	filename, _ := filepath.Abs(cfgFile)

	var provider config.ConfigProvider = config.NewYAMLProvider(filename)
	defer provider.Close()

	cfgData, err := provider.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error reading config file. Did you pass the --config flag? Run with -h for help: %w", err)
	}
	return cfgData, nil
}
