package lib

import (
	"encoding/json"
	"os"
	"path/filepath"
)

/* This file implements logic for 'user controlled' global configurations of each module of the service */

const (
	// FILE NAMES in the 'data directory'
	ConfigFilePath = "config.json" // the file path for the service configuration
)

// Config is the structure of the user configuration options for a settlement service node
type Config struct {
	MainConfig    // main options spanning over all modules
	RPCConfig     // rpc API options
	StoreConfig   // persistence options
	MetricsConfig // telemetry options
}

// DefaultConfig() returns a Config with developer set options
func DefaultConfig() Config {
	return Config{
		MainConfig:    DefaultMainConfig(),
		RPCConfig:     DefaultRPCConfig(),
		StoreConfig:   DefaultStoreConfig(),
		MetricsConfig: DefaultMetricsConfig(),
	}
}

// MAIN CONFIG BELOW

type MainConfig struct {
	LogLevel string `json:"logLevel"` // any level includes the levels above it: debug < info < warn < error
}

// DefaultMainConfig() sets log level to 'info'
func DefaultMainConfig() MainConfig {
	return MainConfig{
		LogLevel: "info", // everything but debug is the default
	}
}

// GetLogLevel() parses the log string in the config file into a LogLevel Enum
func (m *MainConfig) GetLogLevel() int32 {
	level, err := ParseLogLevel(m.LogLevel)
	if err != nil {
		// fall back to the most verbose level rather than fail startup
		return DebugLevel
	}
	return level
}

// RPC CONFIG BELOW

type RPCConfig struct {
	RPCPort     string `json:"rpcPort"`     // the port where the rpc server is hosted
	AdminPort   string `json:"adminPort"`   // the port where the admin rpc server is hosted
	RPCUrl      string `json:"rpcURL"`      // the url where the rpc server is hosted
	AdminRPCUrl string `json:"adminRPCUrl"` // the url where the admin rpc server is hosted
	TimeoutS    int    `json:"timeoutS"`    // the rpc request timeout in seconds
}

// DefaultRPCConfig() sets rpc url to localhost and sets rpc and admin ports to [50010-50011]
func DefaultRPCConfig() RPCConfig {
	return RPCConfig{
		RPCPort:     "50010",                  // the rpc is served on localhost:50010
		AdminPort:   "50011",                  // the admin rpc is served on localhost:50011
		RPCUrl:      "http://localhost:50010", // use a local rpc by default
		AdminRPCUrl: "http://localhost:50011", // use a local admin rpc by default
		TimeoutS:    3,                        // the rpc timeout is 3 seconds
	}
}

// STORE CONFIG BELOW

// StoreConfig is user configurations for the key value database
type StoreConfig struct {
	DataDirPath string `json:"dataDirPath"` // path of the designated folder where the application stores its data
	DBName      string `json:"dbName"`      // name of the database
	InMemory    bool   `json:"inMemory"`    // non-disk database, only for testing
}

// DefaultDataDirPath() is $USERHOME/.contracts-v3
func DefaultDataDirPath() string {
	// get the user home
	home, err := os.UserHomeDir()
	// if unable to get the user home
	if err != nil {
		// fatal error
		panic(err)
	}
	// exit with full default data directory path
	return filepath.Join(home, ".contracts-v3")
}

// DefaultStoreConfig() returns the developer recommended store configuration
func DefaultStoreConfig() StoreConfig {
	return StoreConfig{
		DataDirPath: DefaultDataDirPath(), // use the default data dir path
		DBName:      "pools",              // 'pools' database name
		InMemory:    false,                // persist to disk, not memory
	}
}

// METRICS CONFIG BELOW

// MetricsConfig represents the configuration for the metrics server
type MetricsConfig struct {
	Enabled           bool   `json:"enabled"`           // if the metrics are enabled
	PrometheusAddress string `json:"prometheusAddress"` // the address of the server
}

// DefaultMetricsConfig() returns the default metrics configuration
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Enabled:           true,           // enabled by default
		PrometheusAddress: "0.0.0.0:9090", // the default prometheus address
	}
}

// WriteToFile() saves the Config object to a JSON file
func (c Config) WriteToFile(filepath string) error {
	// convert the config to indented 'pretty' json bytes
	jsonBytes, err := json.MarshalIndent(c, "", "  ")
	// if an error occurred during the conversion
	if err != nil {
		// exit with error
		return err
	}
	// write the config.json file to the data directory
	return os.WriteFile(filepath, jsonBytes, os.ModePerm)
}

// NewConfigFromFile() populates a Config object from a JSON file
func NewConfigFromFile(filepath string) (Config, error) {
	// read the file into bytes
	fileBytes, err := os.ReadFile(filepath)
	// if an error occurred
	if err != nil {
		// exit with error
		return Config{}, err
	}
	// define the default config to fill in any blanks in the file
	c := DefaultConfig()
	// populate the default config with the file bytes
	if err = json.Unmarshal(fileBytes, &c); err != nil {
		// exit with error
		return Config{}, err
	}
	// exit
	return c, nil
}

// InitializeDataDirectory() ensures the data directory exists and contains a config file
func InitializeDataDirectory(dataDirPath string, log LoggerI) (c Config, err ErrorI) {
	// ensure the data directory exists
	if e := os.MkdirAll(dataDirPath, os.ModePerm); e != nil {
		return Config{}, ErrInvalidDataDir(e)
	}
	// calculate the expected config file path
	configFilePath := filepath.Join(dataDirPath, ConfigFilePath)
	// if the config file doesn't yet exist
	if _, e := os.Stat(configFilePath); os.IsNotExist(e) {
		// log the creation of the new file
		log.Infof("Creating %s file", configFilePath)
		// write the default config to the file
		if e = DefaultConfig().WriteToFile(configFilePath); e != nil {
			return Config{}, ErrWriteFile(e)
		}
	}
	// populate the config from the file
	c, e := NewConfigFromFile(configFilePath)
	// if an error occurred during the read
	if e != nil {
		return Config{}, ErrReadFile(e)
	}
	// ensure the configured data dir follows the initialized path
	c.DataDirPath = dataDirPath
	// exit
	return
}
