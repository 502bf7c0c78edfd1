// Package manifest turns resource configurations into deterministic
// Kubernetes YAML and back. Rendering is byte-stable: the same
// configuration always produces the same text, field order is fixed per
// kind, indentation is two spaces, and no line carries trailing
// whitespace. Decoding accepts what Render produces, so render -> decode
// -> render round-trips to identical bytes.
package manifest

import (
	"fmt"
	"strings"

	"manifest-kit/pkg/k8s"
)

const (
	apiCore       = "v1"
	apiApps       = "apps/v1"
	apiBatch      = "batch/v1"
	apiRBAC       = "rbac.authorization.k8s.io/v1"
	apiNetworking = "networking.k8s.io/v1"
)

// doc accumulates one YAML document. indent counts 2-space levels.
type doc struct {
	b strings.Builder
}

func (d *doc) line(indent int, s string) {
	for i := 0; i < indent; i++ {
		d.b.WriteString("  ")
	}
	d.b.WriteString(s)
	d.b.WriteByte('\n')
}

func (d *doc) linef(indent int, format string, args ...any) {
	d.line(indent, fmt.Sprintf(format, args...))
}

func (d *doc) String() string { return d.b.String() }

// writeHeader emits apiVersion, kind and the metadata block. Namespace is
// omitted when empty; the labels key is always present.
func writeHeader(d *doc, apiVersion, kind string, meta k8s.Meta) {
	d.linef(0, "apiVersion: %s", apiVersion)
	d.linef(0, "kind: %s", kind)
	d.line(0, "metadata:")
	d.linef(1, "name: %s", scalar(meta.Name))
	if meta.Namespace != "" {
		d.linef(1, "namespace: %s", meta.Namespace)
	}
	writeLabels(d, 1, meta.Labels)
}

// writeLabels renders "labels: {}" for an empty set, otherwise one
// "key: value" line per label in insertion order.
func writeLabels(d *doc, indent int, labels k8s.Labels) {
	if len(labels) == 0 {
		d.line(indent, "labels: {}")
		return
	}
	d.line(indent, "labels:")
	for _, l := range labels {
		d.linef(indent+1, "%s: %s", l.Key, scalar(l.Value))
	}
}

// flowList renders a YAML flow sequence with every element double-quoted,
// so the core API group "" survives as an explicit element.
func flowList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

// writeContainers emits the containers sequence for a pod template.
func writeContainers(d *doc, indent int, containers []k8s.Container) {
	d.line(indent, "containers:")
	for _, c := range containers {
		d.linef(indent+1, "- name: %s", scalar(c.Name))
		d.linef(indent+2, "image: %s", scalar(c.Image))
		if cmd := strings.Fields(c.Command); len(cmd) > 0 {
			d.linef(indent+2, "command: %s", flowList(cmd))
		}
		if args := strings.Fields(c.Args); len(args) > 0 {
			d.linef(indent+2, "args: %s", flowList(args))
		}
		writeEnv(d, indent+2, c.Env)
		writeMounts(d, indent+2, c.VolumeMounts)
		writeResources(d, indent+2, c.Resources)
	}
}

// writeEnv emits the env sequence. Literal values are always quoted;
// references render as configMapKeyRef or secretKeyRef.
func writeEnv(d *doc, indent int, env []k8s.EnvVar) {
	if len(env) == 0 {
		return
	}
	d.line(indent, "env:")
	for _, v := range env {
		d.linef(indent+1, "- name: %s", scalar(v.Name))
		if v.ValueFrom == nil {
			d.linef(indent+2, "value: %q", v.Value)
			continue
		}
		d.line(indent+2, "valueFrom:")
		switch v.ValueFrom.Kind {
		case k8s.EnvRefSecret:
			d.line(indent+3, "secretKeyRef:")
		default:
			d.line(indent+3, "configMapKeyRef:")
		}
		d.linef(indent+4, "name: %s", scalar(v.ValueFrom.Name))
		d.linef(indent+4, "key: %s", scalar(v.ValueFrom.Key))
	}
}

func writeMounts(d *doc, indent int, mounts []k8s.VolumeMount) {
	if len(mounts) == 0 {
		return
	}
	d.line(indent, "volumeMounts:")
	for _, m := range mounts {
		d.linef(indent+1, "- name: %s", scalar(m.Name))
		d.linef(indent+2, "mountPath: %s", scalar(m.MountPath))
	}
}

// writeResources always emits requests with both quantities quoted, blank
// or not, so requesting nothing is visible in the manifest. Limits appear
// only when at least one limit is set; a blank limit falls back to the
// matching request so limits never render looser than requests.
func writeResources(d *doc, indent int, r k8s.ResourceRequirements) {
	d.line(indent, "resources:")
	d.line(indent+1, "requests:")
	d.linef(indent+2, "cpu: %q", r.Requests.CPU)
	d.linef(indent+2, "memory: %q", r.Requests.Memory)
	if r.Limits.IsZero() {
		return
	}
	cpu, memory := r.Limits.CPU, r.Limits.Memory
	if cpu == "" {
		cpu = r.Requests.CPU
	}
	if memory == "" {
		memory = r.Requests.Memory
	}
	d.line(indent+1, "limits:")
	d.linef(indent+2, "cpu: %q", cpu)
	d.linef(indent+2, "memory: %q", memory)
}

// orDefault substitutes a rendered default for a blank form field.
func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

// scalar renders a possibly-empty user string as a YAML scalar: empty
// values become an explicit "" so no rendered line ends in a space, even
// for configurations that have not passed validation yet.
func scalar[S ~string](s S) string {
	if s == "" {
		return `""`
	}
	return string(s)
}
