package tasktemplate

import (
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/ecs"
)

const (
	// containerName is the logical name of the agent container; every
	// template's task definition declares exactly one container under it.
	containerName = "jenkins-agent"
	// family groups all registrations of this module; the scheduler versions
	// each registered definition as a new revision of the family.
	family = "jenkins-agent"
	// javaOptsEnv carries the template's extra JVM arguments into the agent.
	javaOptsEnv = "JAVA_OPTS"
)

// RegisterTaskDefinitionInput builds the registration request for this
// template. Building is deterministic and side-effect-free; the only errors
// are malformed compact mount/volume specs.
func (t *Template) RegisterTaskDefinitionInput() (*ecs.RegisterTaskDefinitionInput, error) {
	mounts, err := t.ParsedMountPoints()
	if err != nil {
		return nil, err
	}
	volumes, err := t.ParsedVolumes()
	if err != nil {
		return nil, err
	}

	def := &ecs.ContainerDefinition{
		Name:        aws.String(containerName),
		Image:       aws.String(t.Image),
		Memory:      aws.Int64(t.Memory),
		Cpu:         aws.Int64(t.CPU),
		Privileged:  aws.Bool(t.Privileged),
		MountPoints: mounts,
	}
	if t.Entrypoint != "" {
		def.EntryPoint = aws.StringSlice(strings.Fields(t.Entrypoint))
	}
	if t.JVMArgs != "" {
		// Essential makes the task stop when the agent container exits.
		def.Environment = []*ecs.KeyValuePair{{
			Name:  aws.String(javaOptsEnv),
			Value: aws.String(t.JVMArgs),
		}}
		def.Essential = aws.Bool(true)
	}

	return &ecs.RegisterTaskDefinitionInput{
		Family:               aws.String(family),
		ContainerDefinitions: []*ecs.ContainerDefinition{def},
		Volumes:              volumes,
	}, nil
}
