package validate

import (
	"fmt"

	"manifest-kit/pkg/k8s"
)

// Resource dispatches to the validator for the concrete resource type. It
// is what the project checker and the lint command run per entry; callers
// holding a concrete type can call its validator directly.
func Resource(res any, ctx Context) (Errors, error) {
	switch r := res.(type) {
	case k8s.Job:
		return Job(r, ctx), nil
	case k8s.CronJob:
		return CronJob(r, ctx), nil
	case k8s.Role:
		return Role(r, ctx), nil
	case k8s.RoleBinding:
		return RoleBinding(r, ctx), nil
	case k8s.ConfigMap:
		return ConfigMap(r), nil
	case k8s.Secret:
		return Secret(r), nil
	case k8s.ServiceAccount:
		return ServiceAccount(r), nil
	case k8s.Namespace:
		return Namespace(r), nil
	case k8s.Deployment:
		return Deployment(r, ctx), nil
	case k8s.DaemonSet:
		return DaemonSet(r, ctx), nil
	default:
		return nil, fmt.Errorf("no validator for resource type %T", res)
	}
}
