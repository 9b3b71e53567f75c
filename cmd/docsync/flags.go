package main

import (
	"flag"
)

type AppFlags struct {
	GlobalConfigFile string
	Mode             string
	EnvFile          string
}

func ParseFlags() AppFlags {
	globalConfigFile := flag.String("config", "", "Path to the global YAML/JSON configuration file. If not set, searches default locations.")
	globalConfigFileAlias := flag.String("c", "", "Alias for -config")

	modeFlag := flag.String("mode", "sync", "What to run: upload, download or sync (uploads then downloads)")
	modeFlagAlias := flag.String("m", "", "Alias for -mode")

	envFile := flag.String("env", "", "Path to a dotenv file loaded before the configuration (default .env)")

	flag.Parse()

	flags := AppFlags{
		GlobalConfigFile: *globalConfigFile,
		Mode:             *modeFlag,
		EnvFile:          *envFile,
	}

	if flags.GlobalConfigFile == "" && *globalConfigFileAlias != "" {
		flags.GlobalConfigFile = *globalConfigFileAlias
	}
	if *modeFlagAlias != "" {
		flags.Mode = *modeFlagAlias
	}

	return flags
}
