package manifest

import "manifest-kit/pkg/k8s"

// Role renders a Role or ClusterRole manifest depending on the scope
// flag. Rule lists render as flow sequences with every element quoted, so
// the core API group "" stays visible.
func Role(r k8s.Role) string {
	d := &doc{}
	writeHeader(d, apiRBAC, r.Kind(), r.Metadata)
	if len(r.Rules) == 0 {
		d.line(0, "rules: []")
		return d.String()
	}
	d.line(0, "rules:")
	for _, rule := range r.Rules {
		d.linef(1, "- apiGroups: %s", flowList(rule.APIGroups))
		d.linef(2, "resources: %s", flowList(rule.Resources))
		d.linef(2, "verbs: %s", flowList(rule.Verbs))
	}
	return d.String()
}

// RoleBinding renders a RoleBinding or ClusterRoleBinding manifest. The
// roleRef block never carries a namespace: bindings can only grant a role
// from their own namespace or a cluster role. Subject apiGroup is the RBAC
// group for users and groups and "" for service accounts, which are core
// objects.
func RoleBinding(b k8s.RoleBinding) string {
	d := &doc{}
	writeHeader(d, apiRBAC, b.Kind(), b.Metadata)
	d.line(0, "roleRef:")
	d.linef(1, "apiGroup: %s", k8s.RBACAPIGroup)
	d.linef(1, "kind: %s", scalar(b.RoleRef.Kind))
	d.linef(1, "name: %s", scalar(b.RoleRef.Name))
	if len(b.Subjects) == 0 {
		d.line(0, "subjects: []")
		return d.String()
	}
	d.line(0, "subjects:")
	for _, s := range b.Subjects {
		d.linef(1, "- kind: %s", scalar(s.Kind))
		d.linef(2, "name: %s", scalar(s.Name))
		if s.Kind == k8s.SubjectServiceAccount {
			d.linef(2, "namespace: %s", scalar(s.Namespace))
		}
		d.linef(2, "apiGroup: %q", s.Kind.APIGroup())
	}
	return d.String()
}
