package config

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/ghodss/yaml"
	"github.com/google/go-cmp/cmp/cmpopts"
	"gotest.tools/assert"

	"github.com/grimesjm/amazon-ecs-plugin/internal/cloud"
	"github.com/grimesjm/amazon-ecs-plugin/pkg/check"
	"github.com/grimesjm/amazon-ecs-plugin/pkg/logger"
	"github.com/grimesjm/amazon-ecs-plugin/pkg/tasktemplate"
)

func TestUnmarshalConfigDefaults(t *testing.T) {
	raw := `
clouds:
  - name: build
    region: us-east-1
    cluster: jenkins-agents
    templates:
      - label: linux
        image: jenkins/inbound-agent:latest
`
	conf := DefaultConfig()
	err := yaml.Unmarshal([]byte(raw), conf, yaml.DisallowUnknownFields)
	assert.NilError(t, err)
	err = check.Validate(conf)
	assert.NilError(t, err)
	assert.Equal(t, conf.Log.Level, "info")
	assert.Equal(t, conf.Log.Color, true)
}

func TestUnmarshalConfigYAML(t *testing.T) {
	raw := `
log:
  level: debug
  color: false
clouds:
  - name: build
    credentials_id: builders
    region: us-east-1
    cluster: jenkins-agents
    templates:
      - label: linux docker
        image: jenkins/inbound-agent:latest
        remote_fs_root: /home/jenkins
        memory: 2048
        cpu: 1024
        privileged: true
        mount_points: docker:/var/run/docker.sock
        volumes: docker:/var/run/docker.sock
        entrypoint: " java -jar agent.jar "
        jvm_args: " -Xmx512m "
`
	expected := Config{
		Log: logger.Config{Level: "debug", Color: false},
		Clouds: []*cloud.Config{{
			Name:          "build",
			CredentialsID: "builders",
			Region:        "us-east-1",
			Cluster:       "jenkins-agents",
			Templates: []*tasktemplate.Template{{
				Label:        "linux docker",
				Image:        "jenkins/inbound-agent:latest",
				RemoteFSRoot: "/home/jenkins",
				Memory:       2048,
				CPU:          1024,
				Privileged:   true,
				MountPoints:  "docker:/var/run/docker.sock",
				Volumes:      "docker:/var/run/docker.sock",
				Entrypoint:   "java -jar agent.jar",
				JVMArgs:      "-Xmx512m",
			}},
		}},
	}

	unmarshaled := Config{}
	err := yaml.Unmarshal([]byte(raw), &unmarshaled, yaml.DisallowUnknownFields)
	assert.NilError(t, err)
	err = check.Validate(&unmarshaled)
	assert.NilError(t, err)
	assert.DeepEqual(t, unmarshaled, expected,
		cmpopts.IgnoreUnexported(tasktemplate.Template{}))
}

func TestUnmarshalConfigUnknownField(t *testing.T) {
	raw := `
log:
  level: debug
cloudz:
  - name: build
`
	unmarshaled := Config{}
	err := yaml.Unmarshal([]byte(raw), &unmarshaled, yaml.DisallowUnknownFields)
	assert.ErrorContains(t, err, "cloudz")
}

func TestValidateConfig(t *testing.T) {
	conf := DefaultConfig()
	err := check.Validate(conf)
	assert.ErrorContains(t, err, "at least one cloud must be configured")

	tpl := &tasktemplate.Template{Label: "linux", Image: "jenkins/inbound-agent"}
	conf.Clouds = []*cloud.Config{
		{Name: "build", Region: "us-east-1", Templates: []*tasktemplate.Template{tpl}},
		{Name: "build", Region: "us-west-2", Templates: []*tasktemplate.Template{tpl}},
	}
	err = check.Validate(conf)
	assert.ErrorContains(t, err, `duplicate cloud name "build"`)

	conf.Clouds[1].Name = "deploy"
	err = check.Validate(conf)
	assert.NilError(t, err)
}

func TestPrintableConfig(t *testing.T) {
	conf := DefaultConfig()
	conf.Clouds = []*cloud.Config{{
		Name:   "build",
		Region: "us-east-1",
		Templates: []*tasktemplate.Template{{
			Label:             "linux",
			Image:             "jenkins/inbound-agent",
			TaskDefinitionARN: "arn:aws:ecs:us-east-1:123456789012:task-definition/jenkins-agent:7",
		}},
	}}
	bs, err := conf.Printable()
	assert.NilError(t, err)
	assert.Assert(t, strings.Contains(string(bs), `"name":"build"`))
	assert.Assert(t, strings.Contains(string(bs), "task-definition/jenkins-agent:7"))
}

func TestResolveConfigFile(t *testing.T) {
	conf := DefaultConfig()
	assert.NilError(t, conf.Resolve())
	assert.Equal(t, conf.ConfigFile, "")

	conf.ConfigFile = "etc/agent-pool.yaml"
	assert.NilError(t, conf.Resolve())
	assert.Assert(t, filepath.IsAbs(conf.ConfigFile))
}
