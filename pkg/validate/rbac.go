package validate

import (
	"fmt"

	"manifest-kit/pkg/k8s"
	"manifest-kit/pkg/resolve"
)

// Role validates a Role or ClusterRole configuration. ctx.Roles feeds the
// name-uniqueness check; an entry whose identity matches ctx.Self is the one
// being edited and never conflicts with itself.
func Role(r k8s.Role, ctx Context) Errors {
	errs := Errors{}
	checkMeta(errs, r.Metadata, r.ClusterScoped)

	if _, taken := errs["name"]; !taken {
		for _, id := range ctx.Roles {
			if id.ID == ctx.Self || id.ClusterScoped != r.ClusterScoped || id.Name != r.Metadata.Name {
				continue
			}
			if r.ClusterScoped {
				errs["name"] = fmt.Sprintf("a ClusterRole named %q already exists", r.Metadata.Name)
				break
			}
			if id.Namespace == r.Metadata.Namespace {
				errs["name"] = fmt.Sprintf("a Role named %q already exists in namespace %q", r.Metadata.Name, r.Metadata.Namespace)
				break
			}
		}
	}

	if len(r.Rules) == 0 {
		errs["rules"] = "at least one rule is required"
		return errs
	}
	for i, rule := range r.Rules {
		checkRule(errs, i, rule)
	}
	return errs
}

func checkRule(errs Errors, i int, rule k8s.PolicyRule) {
	if len(rule.APIGroups) == 0 {
		errs[fmt.Sprintf("rule-%d-apiGroups", i)] = `at least one API group is required ("" selects the core group)`
	}
	resKey := fmt.Sprintf("rule-%d-resources", i)
	if len(rule.Resources) == 0 {
		errs[resKey] = "at least one resource is required"
	} else {
		for _, res := range rule.Resources {
			if res == "" {
				errs[resKey] = "resources must not be blank"
				break
			}
		}
	}
	verbKey := fmt.Sprintf("rule-%d-verbs", i)
	if len(rule.Verbs) == 0 {
		errs[verbKey] = "at least one verb is required"
	} else {
		for _, v := range rule.Verbs {
			if v == "" {
				errs[verbKey] = "verbs must not be blank"
				break
			}
		}
	}
}

// RoleBinding validates a RoleBinding or ClusterRoleBinding, including the
// scope rule that a cluster-scoped binding can only grant a ClusterRole.
func RoleBinding(b k8s.RoleBinding, ctx Context) Errors {
	errs := Errors{}
	checkMeta(errs, b.Metadata, b.ClusterScoped)
	checkRoleRef(errs, b, ctx.References)

	if len(b.Subjects) == 0 {
		errs["subjects"] = "at least one subject is required"
		return errs
	}
	for i, s := range b.Subjects {
		checkSubject(errs, i, s)
	}
	return errs
}

func checkRoleRef(errs Errors, b k8s.RoleBinding, refs *resolve.Snapshot) {
	switch b.RoleRef.Kind {
	case k8s.KindClusterRole:
	case k8s.KindRole:
		if b.ClusterScoped {
			errs["roleRef.kind"] = "a ClusterRoleBinding must reference a ClusterRole"
		}
	default:
		errs["roleRef.kind"] = "must be Role or ClusterRole"
	}

	checkName(errs, "roleRef.name", b.RoleRef.Name)
	if refs == nil {
		return
	}
	if _, bad := errs["roleRef.name"]; bad {
		return
	}
	if _, bad := errs["roleRef.kind"]; bad {
		return
	}
	if b.RoleRef.Kind == k8s.KindClusterRole {
		if !contains(refs.ClusterRoleNames(), b.RoleRef.Name) {
			errs["roleRef.name"] = fmt.Sprintf("ClusterRole %q not found", b.RoleRef.Name)
		}
		return
	}
	if !contains(refs.RoleNames(b.Metadata.Namespace), b.RoleRef.Name) {
		errs["roleRef.name"] = fmt.Sprintf("Role %q not found in namespace %q", b.RoleRef.Name, b.Metadata.Namespace)
	}
}

func checkSubject(errs Errors, i int, s k8s.Subject) {
	nameKey := fmt.Sprintf("subject-%d-name", i)
	nsKey := fmt.Sprintf("subject-%d-namespace", i)
	switch s.Kind {
	case k8s.SubjectServiceAccount:
		checkName(errs, nameKey, s.Name)
		if s.Namespace == "" {
			errs[nsKey] = msgNamespaceRequired
		} else {
			checkName(errs, nsKey, s.Namespace)
		}
	case k8s.SubjectUser, k8s.SubjectGroup:
		if s.Name == "" {
			errs[nameKey] = msgNameRequired
		}
		if s.Namespace != "" {
			errs[nsKey] = "only ServiceAccount subjects have a namespace"
		}
	default:
		errs[fmt.Sprintf("subject-%d-kind", i)] = "must be User, Group or ServiceAccount"
	}
}

func contains(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}
