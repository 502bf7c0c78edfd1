package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"manifest-kit/pkg/k8s"
)

func TestConfigMapValidation(t *testing.T) {
	cm := k8s.NewConfigMap()
	cm.Metadata.Name = "app-config"
	cm.Metadata.Namespace = "batch"
	cm.Data = k8s.DataEntries{
		{Key: "LOG_LEVEL", Value: "info"},
		{Key: "feature.flags", Value: "a,b"},
	}
	assert.True(t, ConfigMap(cm).OK())

	cm.Data = k8s.DataEntries{
		{Key: "", Value: "x"},
		{Key: "LOG_LEVEL", Value: "info"},
		{Key: "LOG_LEVEL", Value: "debug"},
		{Key: "bad key!", Value: "x"},
	}
	errs := ConfigMap(cm)
	assert.Equal(t, "key is required", errs["data-0-key"])
	assert.Equal(t, `duplicate key "LOG_LEVEL"`, errs["data-2-key"])
	assert.Contains(t, errs["data-3-key"], "alphanumeric")
}

func TestSecretValidation(t *testing.T) {
	s := k8s.NewSecret()
	s.Metadata.Name = "db-creds"
	s.Metadata.Namespace = "batch"
	s.Data = k8s.DataEntries{{Key: "password", Value: "hunter2"}}
	assert.True(t, Secret(s).OK())

	s.Type = "kubernetes.io/tls"
	assert.True(t, Secret(s).OK())

	s.Type = "mystery"
	assert.Equal(t, `unknown secret type "mystery"`, Secret(s)["type"])

	s.Type = ""
	assert.Equal(t, "type is required", Secret(s)["type"])
}

func TestServiceAccountValidation(t *testing.T) {
	sa := k8s.NewServiceAccount()
	sa.Metadata.Name = "ci-runner"
	sa.Metadata.Namespace = "build"
	sa.ImagePullSecrets = []k8s.ObjectRef{{Name: "registry-creds"}}
	assert.True(t, ServiceAccount(sa).OK())

	sa.Secrets = []k8s.ObjectRef{{Name: "Bad_Name"}}
	errs := ServiceAccount(sa)
	assert.Contains(t, errs["secret-0"], "DNS-1123")

	sa.Secrets = nil
	sa.ImagePullSecrets = []k8s.ObjectRef{{Name: ""}}
	assert.Equal(t, "name is required", ServiceAccount(sa)["imagePullSecret-0"])
}

func TestNamespaceValidation(t *testing.T) {
	ns := k8s.Namespace{Name: "monitoring"}
	assert.True(t, Namespace(ns).OK())

	ns.Name = "Monitoring"
	assert.Contains(t, Namespace(ns)["name"], "DNS-1123")

	ns = k8s.Namespace{
		Name:   "monitoring",
		Labels: k8s.Labels{{Key: "team", Value: "sre"}},
	}
	assert.True(t, Namespace(ns).OK())
}

func TestLabelValidation(t *testing.T) {
	j := validJob()
	j.Metadata.Labels = k8s.Labels{
		{Key: "app", Value: "sync"},
		{Key: "app", Value: "other"},
	}
	errs := Job(j, Context{})
	assert.Equal(t, `duplicate label key "app"`, errs["label-app"])

	j.Metadata.Labels = k8s.Labels{{Key: "bad key", Value: "x"}}
	errs = Job(j, Context{})
	assert.Contains(t, errs["label-bad key"], "[prefix/]name")

	j.Metadata.Labels = k8s.Labels{{Key: "app", Value: "has spaces"}}
	errs = Job(j, Context{})
	assert.Contains(t, errs["label-app"], "alphanumeric")

	j.Metadata.Labels = k8s.Labels{{Key: "example.com/team", Value: "sre"}}
	errs = Job(j, Context{})
	assert.True(t, errs.OK(), "unexpected errors: %v", errs)
}
