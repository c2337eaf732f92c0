package lib

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	// calculate expected
	expected := Config{
		MainConfig:    DefaultMainConfig(),
		RPCConfig:     DefaultRPCConfig(),
		StoreConfig:   DefaultStoreConfig(),
		MetricsConfig: DefaultMetricsConfig(),
	}
	// execute the function call
	got := DefaultConfig()
	// compare got vs expected
	require.Equal(t, expected, got)
}

func TestFileConfig(t *testing.T) {
	filePath := "./test_config"
	// define a variable to test upon
	config := DefaultConfig()
	// write to file
	require.NoError(t, config.WriteToFile(filePath))
	defer os.RemoveAll(filePath)
	// read from file
	got, err := NewConfigFromFile(filePath)
	require.NoError(t, err)
	// compare got vs expected
	require.Equal(t, config, got)
}

func TestInitializeDataDirectory(t *testing.T) {
	// pre-define a data-dir path for easy cleanup
	path := filepath.Join(t.TempDir(), "datadir")
	// execute the function call
	got, err := InitializeDataDirectory(path, NewNullLogger())
	require.NoError(t, err)
	// expect the config file to exist on disk
	_, e := os.Stat(filepath.Join(path, ConfigFilePath))
	require.NoError(t, e)
	// expect the default config pointed at the new data dir
	expected := DefaultConfig()
	expected.DataDirPath = path
	require.Equal(t, expected, got)
	// a second call loads the same file rather than recreating it
	again, err := InitializeDataDirectory(path, NewNullLogger())
	require.NoError(t, err)
	require.Equal(t, got, again)
}
