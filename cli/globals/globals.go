package globals

import (
	"satchel/cli/api"
	"satchel/cli/config"
)

var API *api.Context
var Config config.Config
var Paths config.Paths

// Init loads the local config and any saved session. It runs before each
// command rather than at package init so that a broken config directory
// surfaces as a normal CLI error.
func Init() error {
	var err error
	Paths, err = config.SetupConfigDir()
	if err != nil {
		return err
	}

	Config, err = config.ReadConfig(Paths)
	if err != nil {
		return err
	}

	API = api.InitContext(Config.Server, Paths.ReadSession())
	return nil
}
