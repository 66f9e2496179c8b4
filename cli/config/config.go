package config

import (
	_ "embed"
	"fmt"
	"gopkg.in/yaml.v3"
	"os"
	"path/filepath"
	"satchel/cli/utils"
	"strings"
)

type Paths struct {
	config    string
	gitignore string
	session   string
}

type Config struct {
	Server   string `yaml:"server,omitempty"`
	PageSize int    `yaml:"page_size,omitempty"`
}

var baseConfigPath = filepath.Join(".config", "satchel")

const configFileName = "config.yml"
const gitignoreName = ".gitignore"
const sessionName = "session"
const defaultPageSize = 25

//go:embed config.yml
var defaultConfig string

// SetupConfigDir ensures that the directory necessary for satchel's config
// has been created. This path defaults to $HOME/.config/satchel.
func SetupConfigDir() (Paths, error) {
	dirname, err := os.UserHomeDir()
	if err != nil {
		return Paths{}, err
	}

	return setupConfigDirIn(dirname)
}

func setupConfigDirIn(dirname string) (Paths, error) {
	localConfig, err := makeConfigDirectories(dirname)
	if err != nil {
		return Paths{}, err
	}

	return Paths{
		config:    filepath.Join(localConfig, configFileName),
		gitignore: filepath.Join(localConfig, gitignoreName),
		session:   filepath.Join(localConfig, sessionName),
	}, nil
}

// makeConfigDirectories creates the necessary directories for storing the
// user's local satchel config
func makeConfigDirectories(dirname string) (string, error) {
	localConfig := filepath.Join(dirname, baseConfigPath)
	err := os.MkdirAll(localConfig, 0700)
	if err != nil {
		return "", err
	}

	return localConfig, nil
}

// ReadConfig reads the config file (config.yml) for current configuration,
// writing the default config first if there isn't one yet.
func ReadConfig(paths Paths) (Config, error) {
	if _, err := os.Stat(paths.config); err != nil {
		if err = setupDefaultConfig(paths); err != nil {
			return Config{}, err
		}
	}

	data, err := os.ReadFile(paths.config)
	if err != nil {
		return Config{}, err
	}

	config := Config{}
	if err = yaml.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("invalid config file %s: %w", paths.config, err)
	}

	config.Server = strings.TrimSuffix(strings.TrimSpace(config.Server), "/")
	if len(config.Server) == 0 {
		return Config{}, fmt.Errorf("missing server in %s", paths.config)
	}

	if config.PageSize <= 0 {
		config.PageSize = defaultPageSize
	}

	return config, nil
}

// WriteConfig replaces the config file with the provided config
func WriteConfig(paths Paths, config Config) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}

	return utils.CopyToFile(string(data), paths.config)
}

// setupDefaultConfig copies default config files from the repo to the user's
// config directory
func setupDefaultConfig(paths Paths) error {
	err := utils.CopyToFile(defaultConfig, paths.config)
	if err != nil {
		return err
	}

	return utils.CopyToFile(sessionName+"\n", paths.gitignore)
}

// SetSession saves the session cookie returned by the server when logging in
// to a (gitignored) file in the config directory
func (paths Paths) SetSession(sessionVal string) error {
	return utils.CopyToFile(sessionVal, paths.session)
}

// ReadSession reads the value in $config_path/session
func (paths Paths) ReadSession() string {
	session, err := os.ReadFile(paths.session)
	if err != nil {
		return ""
	}

	return strings.TrimSpace(string(session))
}

// Reset removes the stored session
func (paths Paths) Reset() error {
	err := os.Remove(paths.session)
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	return nil
}
