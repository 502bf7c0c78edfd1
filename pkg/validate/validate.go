// Package validate holds the per-kind field validators. Every validator is a
// pure function from an instance (plus optional sibling context) to an Errors
// map keyed by field path; an empty map means the instance is valid. Nothing
// here panics on user input: malformed free-text values are reported as
// messages, and validators are safe to re-run on every edit.
package validate

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"k8s.io/apimachinery/pkg/api/resource"
	"k8s.io/apimachinery/pkg/util/validation"

	"manifest-kit/pkg/k8s"
	"manifest-kit/pkg/resolve"
)

// Errors maps a field path ("name", "container-image-0", "rule-2-verbs",
// "roleRef.kind") to a human-readable message. Empty means valid.
type Errors map[string]string

// OK reports whether the map holds no errors.
func (e Errors) OK() bool { return len(e) == 0 }

// Context supplies the sibling data some validators need. The zero value
// disables every cross-resource check, which is how validators run while a
// project snapshot is not available.
type Context struct {
	// References enables existence checks for EnvVar valueFrom and binding
	// roleRef targets. Nil skips them; the reference fields are still
	// pattern-checked.
	References *resolve.Snapshot

	// Roles lists the identities of the project's existing roles for the
	// uniqueness check. Self names the entry being edited so re-saving under
	// the same identity does not collide with itself; uuid.Nil means a new
	// entry is being created.
	Roles []RoleIdentity
	Self  uuid.UUID
}

// RoleIdentity is the uniqueness key of a stored Role/ClusterRole entry.
type RoleIdentity struct {
	ID            uuid.UUID
	Name          string
	Namespace     string
	ClusterScoped bool
}

const (
	msgNameRequired      = "name is required"
	msgNamePattern       = "must be a lowercase DNS-1123 label: [a-z0-9]([-a-z0-9]*[a-z0-9])?, at most 63 characters"
	msgNamespaceRequired = "namespace is required"
	msgNamespaceFixed    = "must be empty for a cluster-scoped resource"
)

// checkName writes the single name error for an invalid name under key.
func checkName(errs Errors, key, name string) {
	if name == "" {
		errs[key] = msgNameRequired
		return
	}
	if len(validation.IsDNS1123Label(name)) > 0 {
		errs[key] = msgNamePattern
	}
}

// checkMeta validates the shared metadata block: name, namespace presence
// according to scope, and the label set.
func checkMeta(errs Errors, meta k8s.Meta, clusterScoped bool) {
	checkName(errs, "name", meta.Name)
	if clusterScoped {
		if meta.Namespace != "" {
			errs["namespace"] = msgNamespaceFixed
		}
	} else if meta.Namespace == "" {
		errs["namespace"] = msgNamespaceRequired
	}
	checkLabels(errs, meta.Labels)
}

// checkLabels validates label keys (qualified names with an optional
// prefix/), values, and key uniqueness.
func checkLabels(errs Errors, labels k8s.Labels) {
	seen := make(map[string]bool, len(labels))
	for _, l := range labels {
		key := "label-" + l.Key
		switch {
		case l.Key == "":
			errs["label-"] = "label key is required"
		case seen[l.Key]:
			errs[key] = fmt.Sprintf("duplicate label key %q", l.Key)
		case len(validation.IsQualifiedName(l.Key)) > 0:
			errs[key] = "label keys match [prefix/]name, where name is alphanumeric with '-', '_' or '.'"
		case len(validation.IsValidLabelValue(l.Value)) > 0:
			errs[key] = "label values are alphanumeric with '-', '_' or '.', at most 63 characters"
		}
		seen[l.Key] = true
	}
}

// checkQuantity validates a non-empty cpu/memory string against the
// Kubernetes quantity syntax.
func checkQuantity(errs Errors, key, value string) {
	if value == "" {
		return
	}
	if _, err := resource.ParseQuantity(value); err != nil {
		errs[key] = fmt.Sprintf("%q is not a Kubernetes quantity (examples: 100m, 2, 128Mi)", value)
	}
}

// checkInt validates a non-empty form field as an integer with a lower
// bound.
func checkInt(errs Errors, key, value string, min int, desc string) {
	if value == "" {
		return
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < min {
		errs[key] = desc
	}
}

// checkPort validates a non-empty port field.
func checkPort(errs Errors, key, value string) {
	if value == "" {
		return
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 || n > 65535 {
		errs[key] = "port must be an integer between 1 and 65535"
	}
}
