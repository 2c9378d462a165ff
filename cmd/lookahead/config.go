package main

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"
)

// Config holds the settings of a session. Values are read from a TOML file and
// may be overridden by command line flags.
type Config struct {
	Trace  string `toml:"trace"`
	MaxK   int    `toml:"maxk"`
	Prompt string `toml:"prompt"`
	Start  string `toml:"start"`
	Init   string `toml:"-"`
}

func defaultConfig() Config {
	return Config{
		Trace:  "Info",
		MaxK:   1,
		Prompt: "la> ",
		Start:  "",
	}
}

// loadConfig reads a TOML configuration file on top of the defaults. An empty
// path yields the defaults.
func loadConfig(path string) (Config, error) {
	conf := defaultConfig()
	if path == "" {
		return conf, nil
	}
	md, err := toml.DecodeFile(path, &conf)
	if err != nil {
		return conf, fmt.Errorf("reading configuration %s: %w", path, err)
	}
	for _, key := range md.Undecoded() {
		tracer().Infof("ignoring unknown configuration key %q", key.String())
	}
	if conf.MaxK < 0 {
		return conf, fmt.Errorf("configuration %s: maxk must not be negative", path)
	}
	return conf, nil
}

// parseFlags parses the command line and merges it with the configuration
// file named by flag --config. Returns the positional arguments.
func parseFlags(fs *pflag.FlagSet, args []string) (Config, []string, error) {
	tlevel := fs.StringP("trace", "t", "", "Trace level [Debug|Info|Error]")
	confpath := fs.StringP("config", "c", "", "Configuration file (TOML)")
	maxk := fs.IntP("maxk", "k", 0, "Maximum lookahead depth")
	initf := fs.String("init", "", "File with commands to execute on startup")
	if err := fs.Parse(args); err != nil {
		return Config{}, nil, err
	}
	conf, err := loadConfig(*confpath)
	if err != nil {
		return conf, nil, err
	}
	if fs.Changed("trace") {
		conf.Trace = *tlevel
	}
	if fs.Changed("maxk") {
		if *maxk < 0 {
			return conf, nil, fmt.Errorf("--maxk must not be negative")
		}
		conf.MaxK = *maxk
	}
	conf.Init = *initf
	return conf, fs.Args(), nil
}
