package manifest

import (
	"encoding/base64"

	"manifest-kit/pkg/k8s"
)

// ConfigMap renders a ConfigMap manifest. Values are always quoted so
// numeric-looking and multi-word values stay strings.
func ConfigMap(c k8s.ConfigMap) string {
	d := &doc{}
	writeHeader(d, apiCore, k8s.KindConfigMap, c.Metadata)
	if len(c.Data) == 0 {
		d.line(0, "data: {}")
		return d.String()
	}
	d.line(0, "data:")
	for _, e := range c.Data {
		d.linef(1, "%s: %q", e.Key, e.Value)
	}
	return d.String()
}

// Secret renders a Secret manifest. Plain values are stored base64-encoded
// under data, the way the API server keeps them; Decode reverses the
// encoding.
func Secret(s k8s.Secret) string {
	d := &doc{}
	writeHeader(d, apiCore, k8s.KindSecret, s.Metadata)
	d.linef(0, "type: %s", scalar(s.Type))
	if len(s.Data) == 0 {
		d.line(0, "data: {}")
		return d.String()
	}
	d.line(0, "data:")
	for _, e := range s.Data {
		d.linef(1, "%s: %s", e.Key, scalar(base64.StdEncoding.EncodeToString([]byte(e.Value))))
	}
	return d.String()
}

// ServiceAccount renders a ServiceAccount manifest. Empty secret lists are
// omitted entirely; automountServiceAccountToken appears only when set.
func ServiceAccount(sa k8s.ServiceAccount) string {
	d := &doc{}
	writeHeader(d, apiCore, k8s.KindServiceAccount, sa.Metadata)
	if sa.Automount != nil {
		d.linef(0, "automountServiceAccountToken: %t", *sa.Automount)
	}
	if len(sa.Secrets) > 0 {
		d.line(0, "secrets:")
		for _, ref := range sa.Secrets {
			d.linef(1, "- name: %s", scalar(ref.Name))
		}
	}
	if len(sa.ImagePullSecrets) > 0 {
		d.line(0, "imagePullSecrets:")
		for _, ref := range sa.ImagePullSecrets {
			d.linef(1, "- name: %s", scalar(ref.Name))
		}
	}
	return d.String()
}

// Namespace renders a Namespace manifest.
func Namespace(ns k8s.Namespace) string {
	d := &doc{}
	writeHeader(d, apiCore, k8s.KindNamespace, k8s.Meta{Name: ns.Name, Labels: ns.Labels})
	return d.String()
}
