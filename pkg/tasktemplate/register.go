package tasktemplate

import (
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/ecs"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Scheduler is the one registration call this package makes against the
// container scheduler. *ecs.ECS satisfies it directly.
type Scheduler interface {
	RegisterTaskDefinition(
		*ecs.RegisterTaskDefinitionInput,
	) (*ecs.RegisterTaskDefinitionOutput, error)
}

// Owner is the pool configuration a template belongs to. It resolves the
// scheduler client from its credentials and region and persists itself after
// a template registers, so cached ARNs survive restarts.
type Owner interface {
	SchedulerClient() (Scheduler, error)
	Save() error
}

// EnsureRegistered returns the task definition ARN for this template,
// registering it with the owner's scheduler on first use. Registration
// happens at most once per template instance: concurrent first callers are
// serialized on the template lock, one performs the network call, and the
// rest observe its cached result. Registration failures propagate unchanged
// and leave the cache unset so a later call can retry.
func (t *Template) EnsureRegistered(owner Owner) (string, error) {
	t.mu.RLock()
	arn := t.TaskDefinitionARN
	t.mu.RUnlock()
	if arn != "" {
		return arn, nil
	}

	arn, registered, err := t.register(owner)
	if err != nil {
		return "", err
	}
	if !registered {
		return arn, nil
	}

	logrus.WithFields(logrus.Fields{
		"label": t.Label,
		"arn":   arn,
	}).Info("registered agent task definition")

	// A failed save must not unset the cache: the registration already
	// happened, and re-registering on retry would mint a duplicate revision.
	if err := owner.Save(); err != nil {
		return "", errors.Wrapf(err, "cannot save owner of template %q after registration", t.Label)
	}
	return arn, nil
}

// register is the locked slow path of EnsureRegistered. It reports whether
// this call performed the registration, as opposed to losing the race and
// finding the ARN already cached.
func (t *Template) register(owner Owner) (string, bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.TaskDefinitionARN != "" {
		return t.TaskDefinitionARN, false, nil
	}

	scheduler, err := owner.SchedulerClient()
	if err != nil {
		return "", false, err
	}
	input, err := t.RegisterTaskDefinitionInput()
	if err != nil {
		return "", false, err
	}
	out, err := scheduler.RegisterTaskDefinition(input)
	if err != nil {
		return "", false, err
	}

	arn := ""
	if out != nil && out.TaskDefinition != nil {
		arn = aws.StringValue(out.TaskDefinition.TaskDefinitionArn)
	}
	if arn == "" {
		return "", false, errors.Errorf(
			"scheduler returned no ARN registering task definition for template %q", t.Label)
	}
	t.TaskDefinitionARN = arn
	logrus.WithFields(logrus.Fields{
		"label": t.Label,
		"arn":   arn,
	}).Debugf("created task definition from %v", input)
	return arn, true, nil
}
