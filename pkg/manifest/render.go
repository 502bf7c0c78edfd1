package manifest

import (
	"fmt"
	"strings"

	"manifest-kit/pkg/k8s"
)

// Render turns any supported resource configuration into manifest text.
// Kinds that imply companion documents (Deployment, DaemonSet) render the
// whole set. Unknown types are an error, never a panic.
func Render(res any) (string, error) {
	switch r := res.(type) {
	case k8s.Job:
		return Job(r), nil
	case k8s.CronJob:
		return CronJob(r), nil
	case k8s.Role:
		return Role(r), nil
	case k8s.RoleBinding:
		return RoleBinding(r), nil
	case k8s.ConfigMap:
		return ConfigMap(r), nil
	case k8s.Secret:
		return Secret(r), nil
	case k8s.ServiceAccount:
		return ServiceAccount(r), nil
	case k8s.Namespace:
		return Namespace(r), nil
	case k8s.Deployment:
		return Deployment(r), nil
	case k8s.DaemonSet:
		return DaemonSet(r), nil
	default:
		return "", fmt.Errorf("cannot render resource type %T", res)
	}
}

// RenderAll renders every resource in input order and joins the documents
// with --- separators.
func RenderAll(resources []any) (string, error) {
	docs := make([]string, 0, len(resources))
	for _, res := range resources {
		text, err := Render(res)
		if err != nil {
			return "", err
		}
		docs = append(docs, text)
	}
	return joinDocs(docs), nil
}

func joinDocs(docs []string) string {
	return strings.Join(docs, "---\n")
}
