// Package cloud implements the owning pool configuration for agent
// templates. A Cloud resolves the ECS scheduler client from its credentials
// and region, matches templates against requested labels, and persists
// itself after a template registers so cached ARNs survive restarts.
package cloud

import (
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/ecs"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/grimesjm/amazon-ecs-plugin/pkg/check"
	"github.com/grimesjm/amazon-ecs-plugin/pkg/set"
	"github.com/grimesjm/amazon-ecs-plugin/pkg/tasktemplate"
)

// Persister saves a cloud's state after one of its templates registers. How
// and where the state lands is the caller's concern.
type Persister interface {
	Persist(c *Cloud) error
}

// PersisterFunc adapts a function to the Persister interface.
type PersisterFunc func(c *Cloud) error

// Persist implements the Persister interface.
func (f PersisterFunc) Persist(c *Cloud) error { return f(c) }

// Discard is a Persister that drops the state, for one-shot runs that do not
// write the updated configuration back.
var Discard Persister = PersisterFunc(func(*Cloud) error { return nil })

// Cloud is one configured agent pool. It implements tasktemplate.Owner for
// the templates it owns.
type Cloud struct {
	config    *Config
	persister Persister

	// mu guards client, which is built on first use and then reused.
	mu     sync.Mutex
	client tasktemplate.Scheduler

	syslog *logrus.Entry
}

// New validates the pool configuration and wraps it. A nil persister means
// saves are discarded.
func New(config *Config, persister Persister) (*Cloud, error) {
	if err := check.Validate(config); err != nil {
		return nil, err
	}
	if persister == nil {
		persister = Discard
	}
	return &Cloud{
		config:    config,
		persister: persister,
		syslog:    logrus.WithField("cloud", config.Name),
	}, nil
}

// Name returns the pool name.
func (c *Cloud) Name() string {
	return c.config.Name
}

// Config returns the underlying pool configuration.
func (c *Cloud) Config() *Config {
	return c.config
}

// SchedulerClient builds the ECS client for this pool's credentials profile
// and region, reusing it across calls.
func (c *Cloud) SchedulerClient() (tasktemplate.Scheduler, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client != nil {
		return c.client, nil
	}

	awsConfig := aws.NewConfig().WithRegion(c.config.Region)
	if c.config.CredentialsID != "" {
		awsConfig = awsConfig.WithCredentials(
			credentials.NewSharedCredentials("", c.config.CredentialsID))
	}
	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot create AWS session for cloud %q", c.config.Name)
	}
	c.client = ecs.New(sess)
	return c.client, nil
}

// Save persists the pool through its Persister.
func (c *Cloud) Save() error {
	return c.persister.Persist(c)
}

// FindTemplate returns the first template whose label tokens cover every
// token of the requested label, or nil when none does. An empty label only
// matches templates that carry no label themselves.
func (c *Cloud) FindTemplate(label string) *tasktemplate.Template {
	requested := set.FromSlice(strings.Fields(label))
	for _, tpl := range c.config.Templates {
		if len(requested) == 0 {
			if len(tpl.LabelSet()) == 0 {
				return tpl
			}
			continue
		}
		if tpl.LabelSet().SupersetOf(requested) {
			return tpl
		}
	}
	return nil
}

// CanProvision reports whether some template of this pool serves the
// requested label.
func (c *Cloud) CanProvision(label string) bool {
	return c.FindTemplate(label) != nil
}

// RegisterAll registers every template of the pool. Templates are
// independent, so a failing one does not block the rest; all failures are
// aggregated into the returned error.
func (c *Cloud) RegisterAll() error {
	var errs *multierror.Error
	for _, tpl := range c.config.Templates {
		if _, err := tpl.EnsureRegistered(c); err != nil {
			c.syslog.WithError(err).Errorf("cannot register agent template %q", tpl.Label)
			errs = multierror.Append(errs, err)
		}
	}
	return errs.ErrorOrNil()
}
