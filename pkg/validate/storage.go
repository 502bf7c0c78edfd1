package validate

import (
	"fmt"

	"k8s.io/apimachinery/pkg/util/validation"

	"manifest-kit/pkg/k8s"
)

// ConfigMap validates a ConfigMap configuration.
func ConfigMap(c k8s.ConfigMap) Errors {
	errs := Errors{}
	checkMeta(errs, c.Metadata, false)
	checkDataEntries(errs, c.Data)
	return errs
}

// Secret validates a Secret configuration. Values are treated as opaque
// text; they are encoded, not validated.
func Secret(s k8s.Secret) Errors {
	errs := Errors{}
	checkMeta(errs, s.Metadata, false)
	switch s.Type {
	case k8s.SecretTypeOpaque, k8s.SecretTypeDockerConfigJSON, k8s.SecretTypeBasicAuth,
		k8s.SecretTypeSSHAuth, k8s.SecretTypeTLS, k8s.SecretTypeServiceAccount:
	case "":
		errs["type"] = "type is required"
	default:
		errs["type"] = fmt.Sprintf("unknown secret type %q", s.Type)
	}
	checkDataEntries(errs, s.Data)
	return errs
}

func checkDataEntries(errs Errors, data k8s.DataEntries) {
	seen := make(map[string]bool, len(data))
	for i, d := range data {
		key := fmt.Sprintf("data-%d-key", i)
		switch {
		case d.Key == "":
			errs[key] = "key is required"
		case seen[d.Key]:
			errs[key] = fmt.Sprintf("duplicate key %q", d.Key)
		case len(validation.IsConfigMapKey(d.Key)) > 0:
			errs[key] = "keys are alphanumeric with '-', '_' or '.', at most 253 characters"
		}
		seen[d.Key] = true
	}
}

// ServiceAccount validates a ServiceAccount configuration.
func ServiceAccount(sa k8s.ServiceAccount) Errors {
	errs := Errors{}
	checkMeta(errs, sa.Metadata, false)
	for i, ref := range sa.Secrets {
		checkName(errs, fmt.Sprintf("secret-%d", i), ref.Name)
	}
	for i, ref := range sa.ImagePullSecrets {
		checkName(errs, fmt.Sprintf("imagePullSecret-%d", i), ref.Name)
	}
	return errs
}

// Namespace validates a Namespace configuration.
func Namespace(ns k8s.Namespace) Errors {
	errs := Errors{}
	checkName(errs, "name", ns.Name)
	checkLabels(errs, ns.Labels)
	return errs
}
