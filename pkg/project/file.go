package project

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"sigs.k8s.io/yaml"

	"manifest-kit/pkg/k8s"
	"manifest-kit/pkg/logger"
)

var log = logger.Component("project")

// projectFile is the on-disk shape: a name plus one tagged payload per
// resource. The kind discriminator picks which payload field is live.
type projectFile struct {
	Name      string      `json:"name"`
	Resources []entryFile `json:"resources,omitempty"`
}

type entryFile struct {
	ID             string              `json:"id,omitempty"`
	Kind           string              `json:"kind"`
	Job            *k8s.Job            `json:"job,omitempty"`
	CronJob        *k8s.CronJob        `json:"cronJob,omitempty"`
	Role           *k8s.Role           `json:"role,omitempty"`
	RoleBinding    *k8s.RoleBinding    `json:"roleBinding,omitempty"`
	ConfigMap      *k8s.ConfigMap      `json:"configMap,omitempty"`
	Secret         *k8s.Secret         `json:"secret,omitempty"`
	ServiceAccount *k8s.ServiceAccount `json:"serviceAccount,omitempty"`
	Namespace      *k8s.Namespace      `json:"namespace,omitempty"`
	Deployment     *k8s.Deployment     `json:"deployment,omitempty"`
	DaemonSet      *k8s.DaemonSet      `json:"daemonSet,omitempty"`
}

// Load reads a project file. Entries without an id get a fresh one, so
// hand-written files work; entries with a malformed id or kind fail the
// whole load.
func Load(path string) (Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Project{}, fmt.Errorf("read project: %w", err)
	}
	var pf projectFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return Project{}, fmt.Errorf("parse project %s: %w", path, err)
	}

	p := Project{Name: pf.Name}
	for i, ef := range pf.Resources {
		res, err := ef.resource()
		if err != nil {
			return Project{}, fmt.Errorf("resource %d: %w", i+1, err)
		}
		id := uuid.New()
		if ef.ID != "" {
			id, err = uuid.Parse(ef.ID)
			if err != nil {
				return Project{}, fmt.Errorf("resource %d: id %q: %w", i+1, ef.ID, err)
			}
		}
		p.Entries = append(p.Entries, Entry{ID: id, Resource: res})
	}
	log.Debug().Str("path", path).Int("resources", len(p.Entries)).Msg("Loaded project")
	return p, nil
}

// Save writes the project file.
func (p Project) Save(path string) error {
	pf := projectFile{Name: p.Name}
	for _, e := range p.Entries {
		ef, err := toEntryFile(e)
		if err != nil {
			return err
		}
		pf.Resources = append(pf.Resources, ef)
	}
	data, err := yaml.Marshal(pf)
	if err != nil {
		return fmt.Errorf("encode project: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write project: %w", err)
	}
	log.Debug().Str("path", path).Int("resources", len(p.Entries)).Msg("Saved project")
	return nil
}

func (ef entryFile) resource() (any, error) {
	missing := func() (any, error) {
		return nil, fmt.Errorf("kind %s has no payload", ef.Kind)
	}
	switch ef.Kind {
	case k8s.KindJob:
		if ef.Job == nil {
			return missing()
		}
		return *ef.Job, nil
	case k8s.KindCronJob:
		if ef.CronJob == nil {
			return missing()
		}
		return *ef.CronJob, nil
	case k8s.KindRole, k8s.KindClusterRole:
		if ef.Role == nil {
			return missing()
		}
		r := *ef.Role
		r.ClusterScoped = ef.Kind == k8s.KindClusterRole
		return r, nil
	case k8s.KindRoleBinding, k8s.KindClusterRoleBinding:
		if ef.RoleBinding == nil {
			return missing()
		}
		b := *ef.RoleBinding
		b.ClusterScoped = ef.Kind == k8s.KindClusterRoleBinding
		return b, nil
	case k8s.KindConfigMap:
		if ef.ConfigMap == nil {
			return missing()
		}
		return *ef.ConfigMap, nil
	case k8s.KindSecret:
		if ef.Secret == nil {
			return missing()
		}
		return *ef.Secret, nil
	case k8s.KindServiceAccount:
		if ef.ServiceAccount == nil {
			return missing()
		}
		return *ef.ServiceAccount, nil
	case k8s.KindNamespace:
		if ef.Namespace == nil {
			return missing()
		}
		return *ef.Namespace, nil
	case k8s.KindDeployment:
		if ef.Deployment == nil {
			return missing()
		}
		return *ef.Deployment, nil
	case k8s.KindDaemonSet:
		if ef.DaemonSet == nil {
			return missing()
		}
		return *ef.DaemonSet, nil
	case "":
		return nil, fmt.Errorf("missing kind")
	default:
		return nil, fmt.Errorf("unsupported kind %q", ef.Kind)
	}
}

func toEntryFile(e Entry) (entryFile, error) {
	ef := entryFile{ID: e.ID.String()}
	switch r := e.Resource.(type) {
	case k8s.Job:
		ef.Kind, ef.Job = k8s.KindJob, &r
	case k8s.CronJob:
		ef.Kind, ef.CronJob = k8s.KindCronJob, &r
	case k8s.Role:
		ef.Kind, ef.Role = r.Kind(), &r
	case k8s.RoleBinding:
		ef.Kind, ef.RoleBinding = r.Kind(), &r
	case k8s.ConfigMap:
		ef.Kind, ef.ConfigMap = k8s.KindConfigMap, &r
	case k8s.Secret:
		ef.Kind, ef.Secret = k8s.KindSecret, &r
	case k8s.ServiceAccount:
		ef.Kind, ef.ServiceAccount = k8s.KindServiceAccount, &r
	case k8s.Namespace:
		ef.Kind, ef.Namespace = k8s.KindNamespace, &r
	case k8s.Deployment:
		ef.Kind, ef.Deployment = k8s.KindDeployment, &r
	case k8s.DaemonSet:
		ef.Kind, ef.DaemonSet = k8s.KindDaemonSet, &r
	default:
		return entryFile{}, fmt.Errorf("cannot store resource type %T", e.Resource)
	}
	return ef, nil
}
