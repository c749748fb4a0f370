package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const envPrefix = "LINECOUNT"

// Config holds the resolved settings for one run.
// Values come from defaults < config file < environment < flags.
type Config struct {
	Threads    int
	Excludes   []string
	NoIgnore   bool
	Format     string
	OutputFile string
	Clipboard  bool
	PDFFile    string
	NoColor    bool
}

// setConfigDefaults registers the defaults that are not carried by a flag.
func setConfigDefaults(v *viper.Viper) {
	v.SetDefault("threads", 0)
	v.SetDefault("exclude", []string{})
	v.SetDefault("no_ignore", false)
	v.SetDefault("format", formatTable)
	v.SetDefault("no_color", false)
}

// initConfig reads the config file and environment into v.
// A missing config file is not an error.
func initConfig(v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "linecount"))
		}
		v.SetConfigName("config")
		v.SetConfigType("toml")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv() // read in environment variables that match LINECOUNT_*

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}
	return nil
}

// loadConfig resolves the typed settings from v.
func loadConfig(v *viper.Viper) Config {
	return Config{
		Threads:    v.GetInt("threads"),
		Excludes:   parsePatterns(v.GetStringSlice("exclude")),
		NoIgnore:   v.GetBool("no_ignore"),
		Format:     strings.ToLower(v.GetString("format")),
		OutputFile: v.GetString("file"),
		Clipboard:  v.GetBool("clipboard"),
		PDFFile:    v.GetString("pdf"),
		NoColor:    v.GetBool("no_color"),
	}
}

// scanOptions returns the settings the tree walker needs.
func (c Config) scanOptions() ScanOptions {
	return ScanOptions{
		Threads:  c.Threads,
		Excludes: c.Excludes,
		NoIgnore: c.NoIgnore,
	}
}
