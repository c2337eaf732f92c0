package main

import (
	"errors"
	"flag"
	"os"
	"path/filepath"

	"github.com/JudioLam9/contracts-v3/lib"
)

var dataDir = flag.String("data-dir", lib.DefaultConfig().DataDirPath, "")

type Config struct {
	RPCUrl                   string   `json:"rpc_url"`
	RPCPort                  string   `json:"rpc_port"`
	AdminPort                string   `json:"admin_port"`
	Tokens                   []string `json:"tokens"`
	Providers                []string `json:"providers"`
	PercentInvalidOperations int      `json:"percent_invalid_operations"`
}

func (c *Config) FromFile(l lib.LoggerI) *Config {
	configFilePath := filepath.Join(*dataDir, configFileName)
	l.Infof("Reading data directory at %s", *dataDir)
	if err := os.MkdirAll(*dataDir, os.ModePerm); err != nil {
		l.Fatal(err.Error())
	}
	if _, err := os.Stat(configFilePath); errors.Is(err, os.ErrNotExist) {
		l.Infof("Creating %s file", configFilePath)
		if err = c.WriteToFile(configFilePath); err != nil {
			l.Fatal(err.Error())
		}
	}
	l.Infof("Reading config file at %s", configFilePath)
	bz, err := os.ReadFile(configFilePath)
	if err != nil {
		l.Fatal(err.Error())
	}
	if err = lib.UnmarshalJSON(bz, c); err != nil {
		l.Fatal(err.Error())
	}
	if len(c.Tokens) == 0 || len(c.Providers) == 0 {
		l.Fatalf("no tokens or providers are in the config file: %s", configFilePath)
	}
	return c
}

func (c *Config) WriteToFile(filepath string) lib.ErrorI {
	c.RPCUrl, c.RPCPort, c.AdminPort = localhost, lib.DefaultConfig().RPCPort, lib.DefaultConfig().AdminPort
	c.Tokens = []string{
		"0x1000000000000000000000000000000000000001",
		"0x1000000000000000000000000000000000000002",
	}
	c.Providers = []string{
		"0x2000000000000000000000000000000000000001",
		"0x2000000000000000000000000000000000000002",
		"0x2000000000000000000000000000000000000003",
	}
	c.PercentInvalidOperations = 10
	bz, err := lib.MarshalJSONIndent(c)
	if err != nil {
		return err
	}
	if er := os.WriteFile(filepath, bz, os.ModePerm); er != nil {
		return lib.ErrWriteFile(er)
	}
	return nil
}
