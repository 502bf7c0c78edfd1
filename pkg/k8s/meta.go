// Package k8s holds the resource models the manifest builder edits: workloads
// (Job, CronJob, Deployment, DaemonSet), RBAC objects (Role, ClusterRole and
// their bindings), config stores (ConfigMap, Secret), ServiceAccount and
// Namespace.
//
// Models are plain value types. Field updates happen on copies; collection
// updates go through the operations in collection.go, which always return a
// new slice and never mutate their input. Nothing in this package validates
// or renders; validation lives in pkg/validate, rendering in pkg/manifest.
package k8s

// Kind names as they appear in rendered manifests.
const (
	KindJob                = "Job"
	KindCronJob            = "CronJob"
	KindDeployment         = "Deployment"
	KindDaemonSet          = "DaemonSet"
	KindService            = "Service"
	KindIngress            = "Ingress"
	KindConfigMap          = "ConfigMap"
	KindSecret             = "Secret"
	KindServiceAccount     = "ServiceAccount"
	KindNamespace          = "Namespace"
	KindRole               = "Role"
	KindClusterRole        = "ClusterRole"
	KindRoleBinding        = "RoleBinding"
	KindClusterRoleBinding = "ClusterRoleBinding"
)

// Meta is the metadata block shared by every namespaced resource. Cluster
// scoped resources (ClusterRole, ClusterRoleBinding, Namespace) must keep
// Namespace empty; validators enforce that.
type Meta struct {
	Name      string `json:"name"`
	Namespace string `json:"namespace,omitempty"`
	Labels    Labels `json:"labels,omitempty"`
}

// Clone returns a deep copy of the metadata.
func (m Meta) Clone() Meta {
	m.Labels = m.Labels.Clone()
	return m
}
