// Package tasktemplate models ephemeral ECS build agents: a declarative
// template describing the agent container, and the translation of that
// template into a task definition registered with the scheduler at most once.
package tasktemplate

import (
	"encoding/json"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/grimesjm/amazon-ecs-plugin/pkg/check"
	"github.com/grimesjm/amazon-ecs-plugin/pkg/set"
)

// Template describes one kind of build agent: the container image to run, its
// resource reservations, and how to wire volumes and startup arguments into
// it. Required fields are immutable after construction; only the entrypoint
// and JVM argument overrides and the registration cache change afterwards.
type Template struct {
	// Label holds whitespace-separated scheduling tags matched against agent
	// requests.
	Label string `json:"label"`
	// Image is the container image reference the agent runs. Required.
	Image string `json:"image"`
	// RemoteFSRoot is the filesystem root the agent process uses inside the
	// container. Advisory only.
	RemoteFSRoot string `json:"remote_fs_root"`
	// Memory and CPU are the reservation in MiB and CPU units. Limits are the
	// scheduler's concern, not enforced here.
	Memory int64 `json:"memory"`
	CPU    int64 `json:"cpu"`
	// Privileged runs the container with elevated host privileges.
	Privileged bool `json:"privileged"`
	// MountPoints is a compact "volumeName:containerPath[,...]" encoding.
	MountPoints string `json:"mount_points"`
	// Volumes is a compact "volumeName:hostSourcePath[,...]" encoding.
	Volumes string `json:"volumes"`
	// Entrypoint optionally overrides the image entrypoint, space-separated.
	Entrypoint string `json:"entrypoint"`
	// JVMArgs are extra startup arguments handed to the agent JVM through the
	// JAVA_OPTS environment variable.
	JVMArgs string `json:"jvm_args"`
	// TaskDefinitionARN caches the definition registered for this template.
	// Empty until EnsureRegistered succeeds, then never overwritten; persisted
	// with the owning cloud so reloaded templates stay registered.
	TaskDefinitionARN string `json:"task_definition_arn,omitempty"`

	// mu guards TaskDefinitionARN.
	mu sync.RWMutex
}

// NewTemplate normalizes and validates a template definition, typically one
// built as a literal rather than unmarshaled from configuration.
func NewTemplate(t *Template) (*Template, error) {
	t.normalize()
	if err := check.Validate(t); err != nil {
		return nil, err
	}
	return t, nil
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (t *Template) UnmarshalJSON(data []byte) error {
	type plain Template
	if err := json.Unmarshal(data, (*plain)(t)); err != nil {
		return errors.Wrap(err, "agent template deserialization failed")
	}
	t.normalize()
	return nil
}

// MarshalJSON implements the json.Marshaler interface. The ARN cell is read
// under the lock so saving one cloud cannot race a sibling template's
// registration.
func (t *Template) MarshalJSON() ([]byte, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	type plain Template
	return json.Marshal((*plain)(t))
}

// Validate implements the check.Validatable interface.
func (t *Template) Validate() []error {
	errs := []error{
		check.NotEmpty(t.Image, "agent template image must be set"),
	}
	if _, err := parsePairs("mount point", t.MountPoints); err != nil {
		errs = append(errs, err)
	}
	if _, err := parsePairs("volume", t.Volumes); err != nil {
		errs = append(errs, err)
	}
	return errs
}

func (t *Template) normalize() {
	t.Entrypoint = strings.TrimSpace(t.Entrypoint)
	t.JVMArgs = strings.TrimSpace(t.JVMArgs)
}

// SetEntrypoint overrides the image entrypoint. Whitespace-only values reset
// it to absent.
func (t *Template) SetEntrypoint(entrypoint string) {
	t.Entrypoint = strings.TrimSpace(entrypoint)
}

// SetJVMArgs replaces the extra JVM startup arguments. Whitespace-only values
// reset them to absent.
func (t *Template) SetJVMArgs(args string) {
	t.JVMArgs = strings.TrimSpace(args)
}

// LabelSet returns the atomic scheduling tokens of the label.
func (t *Template) LabelSet() set.Set[string] {
	return set.FromSlice(strings.Fields(t.Label))
}

// DisplayName names agents provisioned from this template in logs and status
// output.
func (t *Template) DisplayName() string {
	return "ECS Agent " + t.Label
}

// DefinitionARN returns the cached task definition ARN, or the empty string
// when the template has not been registered yet.
func (t *Template) DefinitionARN() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.TaskDefinitionARN
}
