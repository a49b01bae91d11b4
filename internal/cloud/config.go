package cloud

import (
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go/aws/arn"
	"github.com/aws/aws-sdk-go/aws/endpoints"
	"github.com/pkg/errors"

	"github.com/grimesjm/amazon-ecs-plugin/pkg/check"
	"github.com/grimesjm/amazon-ecs-plugin/pkg/tasktemplate"
)

// Config describes one agent pool: the account and region context its task
// definitions register into, and the agent templates the pool owns.
type Config struct {
	// Name identifies the pool in logs and must be unique across the
	// configuration.
	Name string `json:"name"`
	// CredentialsID selects the shared AWS credentials profile used to build
	// the scheduler client. Empty means the SDK default chain (environment,
	// instance role).
	CredentialsID string `json:"credentials_id"`
	// Region is the AWS region task definitions register into.
	Region string `json:"region"`
	// Cluster is the ECS cluster the pool's agents run on. Launching agents
	// is the pool controller's concern; the value is carried here so one
	// saved configuration describes the whole pool. Plain names and full
	// ARNs are both accepted.
	Cluster string `json:"cluster"`
	// Templates are the agent templates this pool owns.
	Templates []*tasktemplate.Template `json:"templates"`
}

// Validate implements the check.Validatable interface.
func (c Config) Validate() []error {
	errs := []error{
		check.NotEmpty(c.Name, "cloud name must be set"),
		check.NotEmpty(c.Region, "cloud region must be set"),
		check.True(len(c.Templates) > 0, "cloud must declare at least one agent template"),
	}
	if c.Region != "" {
		errs = append(errs, check.In(c.Region, knownRegions(),
			"cloud region must be a known AWS region"))
	}
	if strings.HasPrefix(c.Cluster, "arn:") {
		if _, err := arn.Parse(c.Cluster); err != nil {
			errs = append(errs, errors.Wrapf(err, "invalid cluster ARN %q", c.Cluster))
		}
	}
	return errs
}

// knownRegions lists the regions of every AWS partition the SDK knows about.
func knownRegions() []string {
	var regions []string
	for _, partition := range endpoints.DefaultPartitions() {
		for id := range partition.Regions() {
			regions = append(regions, id)
		}
	}
	sort.Strings(regions)
	return regions
}
