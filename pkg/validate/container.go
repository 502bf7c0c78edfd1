package validate

import (
	"fmt"
	"strings"

	"k8s.io/apimachinery/pkg/util/validation"

	"manifest-kit/pkg/k8s"
	"manifest-kit/pkg/resolve"
)

// checkContainers validates a workload's container list. namespace is the
// workload namespace used to resolve env references when refs is non-nil.
func checkContainers(errs Errors, containers []k8s.Container, namespace string, refs *resolve.Snapshot) {
	if len(containers) == 0 {
		errs["containers"] = "at least one container is required"
		return
	}
	names := make(map[string]bool, len(containers))
	for i, c := range containers {
		nameKey := fmt.Sprintf("container-name-%d", i)
		checkName(errs, nameKey, c.Name)
		if c.Name != "" && names[c.Name] {
			errs[nameKey] = fmt.Sprintf("duplicate container name %q", c.Name)
		}
		names[c.Name] = true

		if c.Image == "" {
			errs[fmt.Sprintf("container-image-%d", i)] = "image is required"
		}

		checkResources(errs, fmt.Sprintf("container-%d", i), c.Resources)
		checkEnv(errs, fmt.Sprintf("container-%d-env", i), c.Env, namespace, refs)
		checkMounts(errs, fmt.Sprintf("container-%d-mount", i), c.VolumeMounts)
	}
}

func checkResources(errs Errors, prefix string, r k8s.ResourceRequirements) {
	checkQuantity(errs, prefix+"-requests-cpu", r.Requests.CPU)
	checkQuantity(errs, prefix+"-requests-memory", r.Requests.Memory)
	checkQuantity(errs, prefix+"-limits-cpu", r.Limits.CPU)
	checkQuantity(errs, prefix+"-limits-memory", r.Limits.Memory)
}

// checkEnv validates environment variables: names, the literal/reference
// exclusivity rule, and reference targets when a snapshot is available.
func checkEnv(errs Errors, prefix string, env []k8s.EnvVar, namespace string, refs *resolve.Snapshot) {
	names := make(map[string]bool, len(env))
	for j, v := range env {
		nameKey := fmt.Sprintf("%s-%d-name", prefix, j)
		switch {
		case v.Name == "":
			errs[nameKey] = "name is required"
		case len(validation.IsEnvVarName(v.Name)) > 0:
			errs[nameKey] = "must be a C identifier: letters, digits and '_', not starting with a digit"
		case names[v.Name]:
			errs[nameKey] = fmt.Sprintf("duplicate variable name %q", v.Name)
		}
		names[v.Name] = true

		if v.ValueFrom == nil {
			continue
		}
		if v.Value != "" {
			errs[fmt.Sprintf("%s-%d-value", prefix, j)] = "set either a literal value or a reference, not both"
		}
		checkEnvRef(errs, fmt.Sprintf("%s-%d-ref", prefix, j), *v.ValueFrom, namespace, refs)
	}
}

func checkEnvRef(errs Errors, key string, ref k8s.EnvVarRef, namespace string, refs *resolve.Snapshot) {
	if ref.Kind != k8s.EnvRefConfigMap && ref.Kind != k8s.EnvRefSecret {
		errs[key] = "reference kind must be configMap or secret"
		return
	}
	if ref.Name == "" {
		errs[key] = "reference name is required"
		return
	}
	if ref.Key == "" {
		errs[key] = "reference key is required"
		return
	}
	if refs == nil {
		return
	}
	switch ref.Kind {
	case k8s.EnvRefConfigMap:
		cm := refs.LookupConfigMap(namespace, ref.Name)
		if cm == nil {
			errs[key] = fmt.Sprintf("configMap %q not found in namespace %q", ref.Name, namespace)
		} else if _, ok := cm.Data.Get(ref.Key); !ok {
			errs[key] = fmt.Sprintf("key %q not found in configMap %q", ref.Key, ref.Name)
		}
	case k8s.EnvRefSecret:
		sec := refs.LookupSecret(namespace, ref.Name)
		if sec == nil {
			errs[key] = fmt.Sprintf("secret %q not found in namespace %q", ref.Name, namespace)
		} else if _, ok := sec.Data.Get(ref.Key); !ok {
			errs[key] = fmt.Sprintf("key %q not found in secret %q", ref.Key, ref.Name)
		}
	}
}

func checkMounts(errs Errors, prefix string, mounts []k8s.VolumeMount) {
	for j, m := range mounts {
		checkName(errs, fmt.Sprintf("%s-%d-name", prefix, j), m.Name)
		pathKey := fmt.Sprintf("%s-%d-path", prefix, j)
		if m.MountPath == "" {
			errs[pathKey] = "mount path is required"
		} else if !strings.HasPrefix(m.MountPath, "/") {
			errs[pathKey] = "mount path must be absolute"
		}
	}
}
