// Package resolve builds candidate lists for the cross-reference pickers:
// which config maps and secrets an env var can point at, which keys those
// hold, and which roles a binding can grant. A Snapshot is a read-only view
// over the project's current resources; lookups that miss return empty
// candidates so the caller can leave the reference dangling for a later
// validation pass instead of failing.
package resolve

import "manifest-kit/pkg/k8s"

// Snapshot is an immutable view of the referenceable resources in a
// project. Build a fresh one after every mutation; methods never observe
// later edits.
type Snapshot struct {
	configMaps      []k8s.ConfigMap
	secrets         []k8s.Secret
	serviceAccounts []k8s.ServiceAccount
	roles           []k8s.Role
}

// NewSnapshot copies the given resources into a Snapshot. Cluster-scoped
// roles ride in the same slice as namespaced ones and are told apart by
// their scope flag.
func NewSnapshot(configMaps []k8s.ConfigMap, secrets []k8s.Secret, serviceAccounts []k8s.ServiceAccount, roles []k8s.Role) *Snapshot {
	s := &Snapshot{
		configMaps:      make([]k8s.ConfigMap, 0, len(configMaps)),
		secrets:         make([]k8s.Secret, 0, len(secrets)),
		serviceAccounts: make([]k8s.ServiceAccount, 0, len(serviceAccounts)),
		roles:           make([]k8s.Role, 0, len(roles)),
	}
	for _, cm := range configMaps {
		s.configMaps = append(s.configMaps, cm.Clone())
	}
	for _, sec := range secrets {
		s.secrets = append(s.secrets, sec.Clone())
	}
	for _, sa := range serviceAccounts {
		s.serviceAccounts = append(s.serviceAccounts, sa.Clone())
	}
	for _, r := range roles {
		s.roles = append(s.roles, r.Clone())
	}
	return s
}

// ConfigMapsIn lists the config map names in a namespace, in project order.
func (s *Snapshot) ConfigMapsIn(namespace string) []string {
	var names []string
	for _, cm := range s.configMaps {
		if cm.Metadata.Namespace == namespace {
			names = append(names, cm.Metadata.Name)
		}
	}
	return names
}

// SecretsIn lists the secret names in a namespace, in project order.
func (s *Snapshot) SecretsIn(namespace string) []string {
	var names []string
	for _, sec := range s.secrets {
		if sec.Metadata.Namespace == namespace {
			names = append(names, sec.Metadata.Name)
		}
	}
	return names
}

// LookupConfigMap returns a copy of the named config map, or nil when the
// namespace holds no such map.
func (s *Snapshot) LookupConfigMap(namespace, name string) *k8s.ConfigMap {
	for _, cm := range s.configMaps {
		if cm.Metadata.Namespace == namespace && cm.Metadata.Name == name {
			c := cm.Clone()
			return &c
		}
	}
	return nil
}

// LookupSecret returns a copy of the named secret, or nil when the
// namespace holds no such secret.
func (s *Snapshot) LookupSecret(namespace, name string) *k8s.Secret {
	for _, sec := range s.secrets {
		if sec.Metadata.Namespace == namespace && sec.Metadata.Name == name {
			c := sec.Clone()
			return &c
		}
	}
	return nil
}

// ConfigMapKeys lists the data keys of the named config map, in entry
// order. An unresolved name yields no candidates rather than an error.
func (s *Snapshot) ConfigMapKeys(namespace, name string) []string {
	cm := s.LookupConfigMap(namespace, name)
	if cm == nil {
		return nil
	}
	return cm.Data.Keys()
}

// SecretKeys lists the data keys of the named secret, in entry order.
func (s *Snapshot) SecretKeys(namespace, name string) []string {
	sec := s.LookupSecret(namespace, name)
	if sec == nil {
		return nil
	}
	return sec.Data.Keys()
}

// ServiceAccountsIn lists the service account names usable in a namespace.
// "default" is always offered first because every namespace has one, then
// the project's own accounts in project order.
func (s *Snapshot) ServiceAccountsIn(namespace string) []string {
	names := []string{"default"}
	for _, sa := range s.serviceAccounts {
		if sa.Metadata.Namespace == namespace && sa.Metadata.Name != "default" {
			names = append(names, sa.Metadata.Name)
		}
	}
	return names
}

// RoleNames lists the namespaced roles in a namespace, in project order.
func (s *Snapshot) RoleNames(namespace string) []string {
	var names []string
	for _, r := range s.roles {
		if !r.ClusterScoped && r.Metadata.Namespace == namespace {
			names = append(names, r.Metadata.Name)
		}
	}
	return names
}

// ClusterRoleNames lists the cluster-scoped roles, in project order.
func (s *Snapshot) ClusterRoleNames() []string {
	var names []string
	for _, r := range s.roles {
		if r.ClusterScoped {
			names = append(names, r.Metadata.Name)
		}
	}
	return names
}
