package tasktemplate

import (
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/ecs"
	"github.com/pkg/errors"
)

// specPair is one decoded segment of a compact "name:path" spec string.
type specPair struct {
	name string
	path string
}

// parsePairs decodes a compact "name:path[,name:path...]" spec, preserving
// segment order. An empty spec decodes to nothing. A segment that does not
// split on ":" into exactly two non-empty components is an error; dropping
// part of a segment would silently corrupt the registration request.
func parsePairs(kind, spec string) ([]specPair, error) {
	if strings.TrimSpace(spec) == "" {
		return nil, nil
	}
	var pairs []specPair
	for _, entry := range strings.Split(spec, ",") {
		entry = strings.TrimSpace(entry)
		fields := strings.Split(entry, ":")
		if len(fields) != 2 || fields[0] == "" || fields[1] == "" {
			return nil, errors.Errorf("invalid %s entry: %q", kind, entry)
		}
		pairs = append(pairs, specPair{name: fields[0], path: fields[1]})
	}
	return pairs, nil
}

// ParsedMountPoints decodes the compact mount point spec into the ECS request
// model, binding each named volume to its path inside the container.
func (t *Template) ParsedMountPoints() ([]*ecs.MountPoint, error) {
	pairs, err := parsePairs("mount point", t.MountPoints)
	if err != nil {
		return nil, err
	}
	var mounts []*ecs.MountPoint
	for _, p := range pairs {
		mounts = append(mounts, &ecs.MountPoint{
			SourceVolume:  aws.String(p.name),
			ContainerPath: aws.String(p.path),
		})
	}
	return mounts, nil
}

// ParsedVolumes decodes the compact volume spec into the ECS request model,
// backing each named volume with a host source path.
func (t *Template) ParsedVolumes() ([]*ecs.Volume, error) {
	pairs, err := parsePairs("volume", t.Volumes)
	if err != nil {
		return nil, err
	}
	var volumes []*ecs.Volume
	for _, p := range pairs {
		volumes = append(volumes, &ecs.Volume{
			Name: aws.String(p.name),
			Host: &ecs.HostVolumeProperties{SourcePath: aws.String(p.path)},
		})
	}
	return volumes, nil
}
