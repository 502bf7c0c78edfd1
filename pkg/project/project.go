// Package project holds a named collection of resource configurations and
// the operations the builder runs against the whole set: upsert with
// validation, cross-reference snapshots, aggregate consistency checking,
// and combined rendering. Projects are values; every mutating operation
// returns a new Project and leaves the receiver untouched.
package project

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"manifest-kit/pkg/k8s"
	"manifest-kit/pkg/manifest"
	"manifest-kit/pkg/resolve"
	"manifest-kit/pkg/validate"
)

// Entry is one stored resource. The ID is the entry's identity across
// edits: re-saving under the same ID replaces the resource instead of
// colliding with it.
type Entry struct {
	ID       uuid.UUID
	Resource any
}

// Project is an ordered set of entries. Order is meaningful: snapshots,
// reports and rendered streams all follow it.
type Project struct {
	Name    string
	Entries []Entry
}

// New returns an empty project.
func New(name string) Project {
	return Project{Name: name}
}

// UpsertResult reports the outcome of an Upsert: the (possibly unchanged)
// project, the entry id the resource lives or would live under, and any
// field errors that blocked the save.
type UpsertResult struct {
	Project Project
	ID      uuid.UUID
	Errors  validate.Errors
}

// Upsert validates res against the project and stores it when clean. Pass
// uuid.Nil to create a new entry, or an existing id to replace that entry
// in place; a resource that fails validation leaves the project exactly as
// it was. Unknown resource types are an error.
func (p Project) Upsert(id uuid.UUID, res any) (UpsertResult, error) {
	errs, err := validate.Resource(res, p.contextFor(id))
	if err != nil {
		return UpsertResult{}, err
	}
	if !errs.OK() {
		return UpsertResult{Project: p, ID: id, Errors: errs}, nil
	}

	next := p.clone()
	stored := cloneResource(res)
	if id == uuid.Nil {
		id = uuid.New()
	}
	replaced := false
	for i, e := range next.Entries {
		if e.ID == id {
			next.Entries[i].Resource = stored
			replaced = true
			break
		}
	}
	if !replaced {
		next.Entries = append(next.Entries, Entry{ID: id, Resource: stored})
	}
	return UpsertResult{Project: next, ID: id}, nil
}

// Remove drops the entry with the given id. The second return reports
// whether anything was removed.
func (p Project) Remove(id uuid.UUID) (Project, bool) {
	next := p.clone()
	for i, e := range next.Entries {
		if e.ID == id {
			next.Entries = append(next.Entries[:i:i], next.Entries[i+1:]...)
			return next, true
		}
	}
	return next, false
}

// Entry returns a copy of the entry with the given id.
func (p Project) Entry(id uuid.UUID) (Entry, bool) {
	for _, e := range p.Entries {
		if e.ID == id {
			return Entry{ID: e.ID, Resource: cloneResource(e.Resource)}, true
		}
	}
	return Entry{}, false
}

// Snapshot builds the reference view validators and pickers resolve
// against: the project's config maps, secrets, service accounts and roles
// as of this call.
func (p Project) Snapshot() *resolve.Snapshot {
	var (
		configMaps      []k8s.ConfigMap
		secrets         []k8s.Secret
		serviceAccounts []k8s.ServiceAccount
		roles           []k8s.Role
	)
	for _, e := range p.Entries {
		switch r := e.Resource.(type) {
		case k8s.ConfigMap:
			configMaps = append(configMaps, r)
		case k8s.Secret:
			secrets = append(secrets, r)
		case k8s.ServiceAccount:
			serviceAccounts = append(serviceAccounts, r)
		case k8s.Role:
			roles = append(roles, r)
		}
	}
	return resolve.NewSnapshot(configMaps, secrets, serviceAccounts, roles)
}

// RenderAll renders every entry in project order, joined with ---
// separators.
func (p Project) RenderAll() (string, error) {
	resources := make([]any, 0, len(p.Entries))
	for _, e := range p.Entries {
		resources = append(resources, e.Resource)
	}
	return manifest.RenderAll(resources)
}

// ManifestFile is one rendered output file: a file name and the manifest
// text of one entry, companion documents included.
type ManifestFile struct {
	Name    string
	Content string
}

// RenderFiles renders each entry to its own file, named <name>-<kind>.yaml.
// Entries without a name are named by position, and a second entry landing
// on a taken file name gets a numeric suffix.
func (p Project) RenderFiles() ([]ManifestFile, error) {
	files := make([]ManifestFile, 0, len(p.Entries))
	used := map[string]int{}
	for i, e := range p.Entries {
		text, err := manifest.Render(e.Resource)
		if err != nil {
			return nil, err
		}
		base := fileBaseName(e.Resource, i)
		used[base]++
		if n := used[base]; n > 1 {
			base = fmt.Sprintf("%s-%d", base, n)
		}
		files = append(files, ManifestFile{Name: base + ".yaml", Content: text})
	}
	return files, nil
}

func fileBaseName(res any, i int) string {
	kind := strings.ToLower(documentKinds(res)[0])
	name := resourceName(res)
	if name == "" {
		return fmt.Sprintf("%s-%d", kind, i+1)
	}
	return fmt.Sprintf("%s-%s", name, kind)
}

// contextFor assembles the validation context for saving under id.
func (p Project) contextFor(id uuid.UUID) validate.Context {
	return validate.Context{
		References: p.Snapshot(),
		Roles:      p.roleIdentities(),
		Self:       id,
	}
}

func (p Project) roleIdentities() []validate.RoleIdentity {
	var ids []validate.RoleIdentity
	for _, e := range p.Entries {
		if r, ok := e.Resource.(k8s.Role); ok {
			ids = append(ids, validate.RoleIdentity{
				ID:            e.ID,
				Name:          r.Metadata.Name,
				Namespace:     r.Metadata.Namespace,
				ClusterScoped: r.ClusterScoped,
			})
		}
	}
	return ids
}

func (p Project) clone() Project {
	next := Project{Name: p.Name}
	if len(p.Entries) == 0 {
		return next
	}
	next.Entries = make([]Entry, len(p.Entries))
	for i, e := range p.Entries {
		next.Entries[i] = Entry{ID: e.ID, Resource: cloneResource(e.Resource)}
	}
	return next
}

// cloneResource deep-copies any supported resource so stored state never
// shares memory with caller-held values.
func cloneResource(res any) any {
	switch r := res.(type) {
	case k8s.Job:
		return r.Clone()
	case k8s.CronJob:
		return r.Clone()
	case k8s.Role:
		return r.Clone()
	case k8s.RoleBinding:
		return r.Clone()
	case k8s.ConfigMap:
		return r.Clone()
	case k8s.Secret:
		return r.Clone()
	case k8s.ServiceAccount:
		return r.Clone()
	case k8s.Namespace:
		return r.Clone()
	case k8s.Deployment:
		return r.Clone()
	case k8s.DaemonSet:
		return r.Clone()
	default:
		return res
	}
}

// resourceName returns the user-facing name of a resource, empty when the
// user has not set one yet.
func resourceName(res any) string {
	switch r := res.(type) {
	case k8s.Job:
		return r.Metadata.Name
	case k8s.CronJob:
		return r.Metadata.Name
	case k8s.Role:
		return r.Metadata.Name
	case k8s.RoleBinding:
		return r.Metadata.Name
	case k8s.ConfigMap:
		return r.Metadata.Name
	case k8s.Secret:
		return r.Metadata.Name
	case k8s.ServiceAccount:
		return r.Metadata.Name
	case k8s.Namespace:
		return r.Name
	case k8s.Deployment:
		return r.AppName
	case k8s.DaemonSet:
		return r.Name
	default:
		return ""
	}
}

// identityKey names an entry in reports: Kind/namespace/name, with the
// namespace segment dropped for cluster-scoped resources.
func identityKey(res any) string {
	switch r := res.(type) {
	case k8s.Job:
		return fmt.Sprintf("%s/%s/%s", k8s.KindJob, r.Metadata.Namespace, r.Metadata.Name)
	case k8s.CronJob:
		return fmt.Sprintf("%s/%s/%s", k8s.KindCronJob, r.Metadata.Namespace, r.Metadata.Name)
	case k8s.Role:
		if r.ClusterScoped {
			return fmt.Sprintf("%s/%s", r.Kind(), r.Metadata.Name)
		}
		return fmt.Sprintf("%s/%s/%s", r.Kind(), r.Metadata.Namespace, r.Metadata.Name)
	case k8s.RoleBinding:
		if r.ClusterScoped {
			return fmt.Sprintf("%s/%s", r.Kind(), r.Metadata.Name)
		}
		return fmt.Sprintf("%s/%s/%s", r.Kind(), r.Metadata.Namespace, r.Metadata.Name)
	case k8s.ConfigMap:
		return fmt.Sprintf("%s/%s/%s", k8s.KindConfigMap, r.Metadata.Namespace, r.Metadata.Name)
	case k8s.Secret:
		return fmt.Sprintf("%s/%s/%s", k8s.KindSecret, r.Metadata.Namespace, r.Metadata.Name)
	case k8s.ServiceAccount:
		return fmt.Sprintf("%s/%s/%s", k8s.KindServiceAccount, r.Metadata.Namespace, r.Metadata.Name)
	case k8s.Namespace:
		return fmt.Sprintf("%s/%s", k8s.KindNamespace, r.Name)
	case k8s.Deployment:
		return fmt.Sprintf("%s/%s/%s", k8s.KindDeployment, r.Namespace, r.AppName)
	case k8s.DaemonSet:
		return fmt.Sprintf("%s/%s/%s", k8s.KindDaemonSet, r.Namespace, r.Name)
	default:
		return fmt.Sprintf("%T", res)
	}
}
