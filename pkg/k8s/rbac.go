package k8s

// RBACAPIGroup is the API group of every RBAC kind and the subject apiGroup
// for User and Group subjects. ServiceAccount subjects use the core group "".
const RBACAPIGroup = "rbac.authorization.k8s.io"

// PolicyRule is one permission grant: API groups x resources x verbs.
// The empty string in APIGroups denotes the core group; "*" in Verbs denotes
// all verbs.
type PolicyRule struct {
	APIGroups []string `json:"apiGroups"`
	Resources []string `json:"resources"`
	Verbs     []string `json:"verbs"`
}

// NewPolicyRule returns the empty rule a new Role form starts with: core API
// group preselected, resources and verbs left for the user.
func NewPolicyRule() PolicyRule {
	return PolicyRule{APIGroups: []string{""}}
}

// Clone returns a deep copy of the rule.
func (r PolicyRule) Clone() PolicyRule {
	if r.APIGroups != nil {
		groups := make([]string, len(r.APIGroups))
		copy(groups, r.APIGroups)
		r.APIGroups = groups
	}
	if r.Resources != nil {
		resources := make([]string, len(r.Resources))
		copy(resources, r.Resources)
		r.Resources = resources
	}
	if r.Verbs != nil {
		verbs := make([]string, len(r.Verbs))
		copy(verbs, r.Verbs)
		r.Verbs = verbs
	}
	return r
}

// DuplicateRuleAt returns a new slice with a deep copy of the rule at index i
// inserted right after it.
func DuplicateRuleAt(list []PolicyRule, i int) []PolicyRule {
	if i < 0 || i >= len(list) {
		return list
	}
	return InsertAfter(list, i, list[i].Clone())
}

// Role models both Role and ClusterRole; ClusterScoped selects which. A
// cluster-scoped role must keep Metadata.Namespace empty.
type Role struct {
	Metadata      Meta         `json:"metadata"`
	ClusterScoped bool         `json:"clusterScoped,omitempty"`
	Rules         []PolicyRule `json:"rules"`
}

// NewRole returns a Role (or ClusterRole) with one empty rule.
func NewRole(clusterScoped bool) Role {
	return Role{
		ClusterScoped: clusterScoped,
		Rules:         []PolicyRule{NewPolicyRule()},
	}
}

// Kind returns Role or ClusterRole according to scope.
func (r Role) Kind() string {
	if r.ClusterScoped {
		return KindClusterRole
	}
	return KindRole
}

// Clone returns a deep copy of the role.
func (r Role) Clone() Role {
	r.Metadata = r.Metadata.Clone()
	if r.Rules != nil {
		rules := make([]PolicyRule, len(r.Rules))
		for i, rule := range r.Rules {
			rules[i] = rule.Clone()
		}
		r.Rules = rules
	}
	return r
}

// SubjectKind is the identity class a binding grants permissions to.
type SubjectKind string

const (
	SubjectUser           SubjectKind = "User"
	SubjectGroup          SubjectKind = "Group"
	SubjectServiceAccount SubjectKind = "ServiceAccount"
)

// APIGroup returns the apiGroup a rendered subject carries: the RBAC group
// for users and groups, the core group (empty string) for service accounts.
func (k SubjectKind) APIGroup() string {
	if k == SubjectServiceAccount {
		return ""
	}
	return RBACAPIGroup
}

// Subject is one grantee of a binding. Namespace is required exactly when
// Kind is ServiceAccount and forbidden otherwise; the apiGroup is derived
// from the kind and not user-settable.
type Subject struct {
	Kind      SubjectKind `json:"kind"`
	Name      string      `json:"name"`
	Namespace string      `json:"namespace,omitempty"`
}

// DuplicateSubjectAt returns a new slice with a copy of the subject at index
// i inserted right after it, its name suffixed per the duplicate rule.
func DuplicateSubjectAt(list []Subject, i int) []Subject {
	if i < 0 || i >= len(list) {
		return list
	}
	dup := list[i]
	dup.Name = copyName(dup.Name)
	return InsertAfter(list, i, dup)
}

// RoleRef names the Role or ClusterRole a binding grants.
type RoleRef struct {
	Kind string `json:"kind"`
	Name string `json:"name"`
}

// RoleBinding models both RoleBinding and ClusterRoleBinding; ClusterScoped
// selects which. A ClusterRoleBinding may only reference a ClusterRole; a
// RoleBinding may reference a Role in its own namespace or a ClusterRole.
type RoleBinding struct {
	Metadata      Meta      `json:"metadata"`
	ClusterScoped bool      `json:"clusterScoped,omitempty"`
	RoleRef       RoleRef   `json:"roleRef"`
	Subjects      []Subject `json:"subjects"`
}

// NewRoleBinding returns a binding with one empty ServiceAccount subject and
// the roleRef kind preselected to match the binding's scope.
func NewRoleBinding(clusterScoped bool) RoleBinding {
	refKind := KindRole
	if clusterScoped {
		refKind = KindClusterRole
	}
	return RoleBinding{
		ClusterScoped: clusterScoped,
		RoleRef:       RoleRef{Kind: refKind},
		Subjects:      []Subject{{Kind: SubjectServiceAccount}},
	}
}

// Kind returns RoleBinding or ClusterRoleBinding according to scope.
func (b RoleBinding) Kind() string {
	if b.ClusterScoped {
		return KindClusterRoleBinding
	}
	return KindRoleBinding
}

// Clone returns a deep copy of the binding.
func (b RoleBinding) Clone() RoleBinding {
	b.Metadata = b.Metadata.Clone()
	if b.Subjects != nil {
		subjects := make([]Subject, len(b.Subjects))
		copy(subjects, b.Subjects)
		b.Subjects = subjects
	}
	return b
}
