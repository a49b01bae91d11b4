package main

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"sync"

	"github.com/ghodss/yaml"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/grimesjm/amazon-ecs-plugin/internal/cloud"
	"github.com/grimesjm/amazon-ecs-plugin/internal/config"
	"github.com/grimesjm/amazon-ecs-plugin/pkg/check"
	"github.com/grimesjm/amazon-ecs-plugin/pkg/logger"
)

const defaultConfigPath = "/etc/ecs-agent-pool.yaml"

var rootCmd = &cobra.Command{
	Use: "ecs-agent-pool",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runRoot(); err != nil {
			log.Error(fmt.Sprintf("%+v", err))
			os.Exit(1)
		}
	},
}

func runRoot() error {
	conf, err := initializeConfig()
	if err != nil {
		return err
	}
	logger.SetLogrus(conf.Log)

	printableConfig, err := conf.Printable()
	if err != nil {
		return err
	}
	log.Infof("agent pool configuration: %s", printableConfig)

	return registerClouds(conf)
}

// initializeConfig returns the validated configuration populated from the
// config file, environment variables, and command line flags.
func initializeConfig() (*config.Config, error) {
	// Fetch an initial config to get the config file path and read its
	// settings into viper.
	initialConfig, err := getConfig(v.AllSettings())
	if err != nil {
		return nil, err
	}

	bs, err := readConfigFile(initialConfig.ConfigFile)
	if err != nil {
		return nil, err
	}
	if err = mergeConfigBytesIntoViper(bs); err != nil {
		return nil, err
	}

	// Fetch the full config again, now containing all values from command
	// line flags, environment variables, and the configuration file.
	conf, err := getConfig(v.AllSettings())
	if err != nil {
		return nil, err
	}

	if err := check.Validate(conf); err != nil {
		return nil, err
	}

	return conf, nil
}

func readConfigFile(configPath string) ([]byte, error) {
	isDefault := configPath == ""
	if isDefault {
		configPath = defaultConfigPath
	}

	var err error
	if _, err = os.Stat(configPath); err != nil {
		if isDefault && os.IsNotExist(err) {
			log.Warnf("no configuration file at %s, skipping", configPath)
			return nil, nil
		}
		return nil, errors.Wrap(err, "error finding configuration file")
	}
	bs, err := ioutil.ReadFile(configPath) // #nosec G304
	if err != nil {
		return nil, errors.Wrap(err, "error reading configuration file")
	}
	return bs, nil
}

func mergeConfigBytesIntoViper(bs []byte) error {
	var configMap map[string]interface{}
	if err := yaml.Unmarshal(bs, &configMap); err != nil {
		return errors.Wrap(err, "error unmarshal yaml configuration file")
	}
	if err := v.MergeConfigMap(configMap); err != nil {
		return errors.Wrap(err, "error merge configuration to viper")
	}
	return nil
}

func getConfig(configMap map[string]interface{}) (*config.Config, error) {
	conf := config.DefaultConfig()
	bs, err := json.Marshal(configMap)
	if err != nil {
		return nil, errors.Wrap(err, "cannot marshal configuration map into json bytes")
	}
	if err = yaml.Unmarshal(bs, conf, yaml.DisallowUnknownFields); err != nil {
		return nil, errors.Wrap(err, "cannot unmarshal configuration")
	}

	if err := conf.Resolve(); err != nil {
		return nil, err
	}
	return conf, nil
}

// filePersister writes the full pool configuration back to the config file
// whenever a cloud asks to be saved, so task definition ARNs cached on the
// templates survive restarts.
func filePersister(path string, conf *config.Config) cloud.Persister {
	var mu sync.Mutex
	return cloud.PersisterFunc(func(*cloud.Cloud) error {
		mu.Lock()
		defer mu.Unlock()
		bs, err := yaml.Marshal(conf)
		if err != nil {
			return errors.Wrap(err, "cannot marshal configuration")
		}
		if err := ioutil.WriteFile(path, bs, 0o644); err != nil {
			return errors.Wrap(err, "cannot write configuration file")
		}
		return nil
	})
}

// registerClouds ensures every agent template of every configured cloud has a
// registered task definition, persisting cached ARNs back to the config file
// as registrations land.
func registerClouds(conf *config.Config) error {
	path := conf.ConfigFile
	if path == "" {
		path = defaultConfigPath
	}
	persister := filePersister(path, conf)

	var errs *multierror.Error
	for _, cc := range conf.Clouds {
		cl, err := cloud.New(cc, persister)
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		errs = multierror.Append(errs, cl.RegisterAll())
	}
	return errs.ErrorOrNil()
}
