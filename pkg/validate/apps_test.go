package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"manifest-kit/pkg/k8s"
)

func validDeployment() k8s.Deployment {
	d := k8s.NewDeployment()
	d.AppName = "web"
	d.Namespace = "frontend"
	d.Image = "registry.example.com/web:3.1"
	d.Port = "8080"
	return d
}

func TestDeploymentValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(d *k8s.Deployment)
		verify func(t *testing.T, errs Errors)
	}{
		{
			name:   "valid deployment passes",
			mutate: func(d *k8s.Deployment) {},
			verify: func(t *testing.T, errs Errors) {
				assert.True(t, errs.OK(), "unexpected errors: %v", errs)
			},
		},
		{
			name:   "missing app name",
			mutate: func(d *k8s.Deployment) { d.AppName = "" },
			verify: func(t *testing.T, errs Errors) {
				assert.Equal(t, "name is required", errs["appName"])
			},
		},
		{
			name:   "missing image",
			mutate: func(d *k8s.Deployment) { d.Image = "" },
			verify: func(t *testing.T, errs Errors) {
				assert.Equal(t, "image is required", errs["image"])
			},
		},
		{
			name:   "port out of range",
			mutate: func(d *k8s.Deployment) { d.Port = "70000" },
			verify: func(t *testing.T, errs Errors) {
				assert.Equal(t, "port must be an integer between 1 and 65535", errs["port"])
			},
		},
		{
			name:   "invalid service type",
			mutate: func(d *k8s.Deployment) { d.ServiceType = "ExternalName" },
			verify: func(t *testing.T, errs Errors) {
				assert.Equal(t, "must be ClusterIP, NodePort or LoadBalancer", errs["serviceType"])
			},
		},
		{
			name:   "non-numeric replicas",
			mutate: func(d *k8s.Deployment) { d.Replicas = "two" },
			verify: func(t *testing.T, errs Errors) {
				assert.Equal(t, "must be a non-negative integer", errs["replicas"])
			},
		},
		{
			name: "ingress enabled without a host",
			mutate: func(d *k8s.Deployment) {
				d.Ingress = k8s.Ingress{Enabled: true, Path: "/"}
			},
			verify: func(t *testing.T, errs Errors) {
				assert.Equal(t, "host is required when ingress is enabled", errs["ingress.host"])
			},
		},
		{
			name: "ingress host must be a subdomain",
			mutate: func(d *k8s.Deployment) {
				d.Ingress = k8s.Ingress{Enabled: true, Host: "not a host", Path: "/"}
			},
			verify: func(t *testing.T, errs Errors) {
				assert.Contains(t, errs["ingress.host"], "DNS-1123 subdomain")
			},
		},
		{
			name: "ingress path must be absolute",
			mutate: func(d *k8s.Deployment) {
				d.Ingress = k8s.Ingress{Enabled: true, Host: "app.example.com", Path: "api"}
			},
			verify: func(t *testing.T, errs Errors) {
				assert.Equal(t, "path must be absolute", errs["ingress.path"])
			},
		},
		{
			name: "disabled ingress skips host checks",
			mutate: func(d *k8s.Deployment) {
				d.Ingress = k8s.Ingress{Enabled: false}
			},
			verify: func(t *testing.T, errs Errors) {
				assert.True(t, errs.OK(), "unexpected errors: %v", errs)
			},
		},
		{
			name: "env errors use the env prefix",
			mutate: func(d *k8s.Deployment) {
				d.Env = []k8s.EnvVar{{Name: "9GAG", Value: "x"}}
			},
			verify: func(t *testing.T, errs Errors) {
				assert.Contains(t, errs["env-0-name"], "C identifier")
			},
		},
		{
			name: "malformed limit quantity",
			mutate: func(d *k8s.Deployment) {
				d.Resources.Limits.Memory = "lots"
			},
			verify: func(t *testing.T, errs Errors) {
				assert.Contains(t, errs["limits-memory"], "not a Kubernetes quantity")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDeployment()
			tt.mutate(&d)
			tt.verify(t, Deployment(d, Context{}))
		})
	}
}

func TestDaemonSetValidation(t *testing.T) {
	ds := k8s.NewDaemonSet()
	ds.Name = "node-agent"
	ds.Namespace = "kube-system"
	ds.Image = "registry.example.com/agent:1.0"
	require.True(t, DaemonSet(ds, Context{}).OK())

	ds.ServiceEnabled = true
	errs := DaemonSet(ds, Context{})
	assert.Equal(t, "port is required when the service is enabled", errs["port"])

	ds.Port = "9100"
	assert.True(t, DaemonSet(ds, Context{}).OK())
}

func TestResourceDispatch(t *testing.T) {
	cases := []any{
		validJob(),
		validCronJob(),
		validRole(),
		validBinding(),
		validDeployment(),
	}
	for _, res := range cases {
		errs, err := Resource(res, Context{})
		require.NoError(t, err)
		assert.True(t, errs.OK(), "unexpected errors for %T: %v", res, errs)
	}

	_, err := Resource(struct{}{}, Context{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no validator")
}
