package main

import (
	"encoding/json"
	"io/ioutil"

	log "github.com/inconshreveable/log15"
	"github.com/spf13/pflag"

	"github.com/netsec-ethz/overlap/pkg/overlap"
)

//Config lists the settings of overlapcheck. It can be loaded from a json file and each field can
//be overwritten by a command line flag.
type Config struct {
	Detector      overlap.Config
	TestEndpoints bool
	//LogLevel is one of crit, error, warn, info, debug
	LogLevel string
}

func defaultConfig() Config {
	return Config{
		Detector: overlap.DefaultConfig(),
		LogLevel: "warn",
	}
}

//loadConfig returns the default config overwritten by the fields present in the json file at
//configPath.
func loadConfig(configPath string) (Config, error) {
	config := defaultConfig()
	if configPath == "" {
		return config, nil
	}
	file, err := ioutil.ReadFile(configPath)
	if err != nil {
		log.Error("Could not open config file...", "path", configPath, "error", err)
		return Config{}, err
	}
	if err = json.Unmarshal(file, &config); err != nil {
		log.Error("Could not unmarshal json format of config", "error", err)
		return Config{}, err
	}
	return config, nil
}

//flagValues holds the command line flags which overwrite the config file.
type flagValues struct {
	configPath    string
	workers       int
	threshold     int
	testEndpoints bool
	verbose       bool
}

func (f *flagValues) register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.configPath, "config", "c", "", "path to a json config file")
	fs.IntVarP(&f.workers, "workers", "w", 0, "maximal number of goroutines per test (0 uses one per CPU)")
	fs.IntVar(&f.threshold, "threshold", 0, "number of independent checks below which a test runs sequentially")
	fs.BoolVarP(&f.testEndpoints, "endpoints", "e", false, "count intervals sharing only an endpoint as overlapping")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "log at debug level")
}

//apply overwrites config with all flags set on fs.
func (f *flagValues) apply(fs *pflag.FlagSet, config *Config) {
	if fs.Changed("workers") {
		config.Detector.Workers = f.workers
	}
	if fs.Changed("threshold") {
		config.Detector.ParallelThreshold = f.threshold
	}
	if fs.Changed("endpoints") {
		config.TestEndpoints = f.testEndpoints
	}
	if f.verbose {
		config.LogLevel = "debug"
	}
}

func setupLogging(level string) error {
	lvl, err := log.LvlFromString(level)
	if err != nil {
		return err
	}
	h := log.CallerFileHandler(log.StderrHandler)
	log.Root().SetHandler(log.LvlFilterHandler(lvl, h))
	return nil
}
