package project

import (
	"fmt"

	"manifest-kit/pkg/k8s"
	"manifest-kit/pkg/validate"
)

// Report is the aggregate consistency result for a project.
type Report struct {
	// Valid is true when no entry produced a validation error.
	Valid bool

	// ResourceCount totals the manifest documents the project renders,
	// including the Services and Ingresses implied by workloads.
	ResourceCount int

	// Kinds counts rendered documents per kind.
	Kinds map[string]int

	// Errors maps each failing entry's identity key to its field errors.
	// Entries sharing an identity get #2, #3... suffixes in entry order.
	Errors map[string]validate.Errors
}

// Check validates every entry against the full project context and totals
// what the project would render. The project itself is not modified, and
// invalid entries stay in place: the report is a review, not a filter.
func (p Project) Check() Report {
	report := Report{
		Kinds:  map[string]int{},
		Errors: map[string]validate.Errors{},
	}
	refs := p.Snapshot()
	roles := p.roleIdentities()
	seen := map[string]int{}

	for _, e := range p.Entries {
		ctx := validate.Context{References: refs, Roles: roles, Self: e.ID}
		errs, err := validate.Resource(e.Resource, ctx)
		if err != nil {
			errs = validate.Errors{"resource": err.Error()}
		}

		key := identityKey(e.Resource)
		seen[key]++
		if n := seen[key]; n > 1 {
			key = fmt.Sprintf("%s#%d", key, n)
		}
		if !errs.OK() {
			report.Errors[key] = errs
		}

		for _, kind := range documentKinds(e.Resource) {
			report.Kinds[kind]++
			report.ResourceCount++
		}
	}

	report.Valid = len(report.Errors) == 0
	return report
}

// documentKinds lists the kinds an entry renders, in document order. Most
// kinds contribute one document; a Deployment brings its implied Service
// and optional Ingress, and a DaemonSet its service when enabled. The
// conditions match the renderer's companion guards, name checks included,
// so counts agree with RenderAll even for entries that do not validate.
func documentKinds(res any) []string {
	switch r := res.(type) {
	case k8s.Job:
		return []string{k8s.KindJob}
	case k8s.CronJob:
		return []string{k8s.KindCronJob}
	case k8s.Role:
		return []string{r.Kind()}
	case k8s.RoleBinding:
		return []string{r.Kind()}
	case k8s.ConfigMap:
		return []string{k8s.KindConfigMap}
	case k8s.Secret:
		return []string{k8s.KindSecret}
	case k8s.ServiceAccount:
		return []string{k8s.KindServiceAccount}
	case k8s.Namespace:
		return []string{k8s.KindNamespace}
	case k8s.Deployment:
		kinds := []string{k8s.KindDeployment}
		if r.AppName != "" {
			kinds = append(kinds, k8s.KindService)
			if r.Ingress.Enabled {
				kinds = append(kinds, k8s.KindIngress)
			}
		}
		return kinds
	case k8s.DaemonSet:
		kinds := []string{k8s.KindDaemonSet}
		if r.ServiceEnabled && r.Name != "" {
			kinds = append(kinds, k8s.KindService)
		}
		return kinds
	default:
		return nil
	}
}
