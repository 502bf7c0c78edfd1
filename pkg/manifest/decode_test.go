package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"manifest-kit/pkg/k8s"
)

func TestDecodeJob(t *testing.T) {
	j := fixtureJob()

	decoded, err := Decode(Job(j))
	require.NoError(t, err)
	assert.Equal(t, j, decoded)
}

func TestDecodeCronJob(t *testing.T) {
	c := k8s.CronJob{
		Metadata:                   k8s.Meta{Name: "nightly-report", Namespace: "batch"},
		Schedule:                   "0 2 * * *",
		ConcurrencyPolicy:          k8s.ConcurrencyForbid,
		StartingDeadlineSeconds:    "120",
		SuccessfulJobsHistoryLimit: "5",
		FailedJobsHistoryLimit:     "2",
		Containers: []k8s.Container{{
			Name:  "report",
			Image: "registry.example.com/report:2.0",
		}},
		RestartPolicy: k8s.RestartOnFailure,
		Parallelism:   "1",
		Completions:   "1",
		BackoffLimit:  "2",
	}

	decoded, err := Decode(CronJob(c))
	require.NoError(t, err)
	assert.Equal(t, c, decoded)
}

func TestDecodeRoleBinding(t *testing.T) {
	b := k8s.RoleBinding{
		Metadata: k8s.Meta{Name: "log-reader-binding", Namespace: "monitoring"},
		RoleRef:  k8s.RoleRef{Kind: k8s.KindRole, Name: "log-reader"},
		Subjects: []k8s.Subject{
			{Kind: k8s.SubjectServiceAccount, Name: "collector", Namespace: "monitoring"},
			{Kind: k8s.SubjectGroup, Name: "platform-team"},
		},
	}

	decoded, err := Decode(RoleBinding(b))
	require.NoError(t, err)
	assert.Equal(t, b, decoded)
}

func TestDecodeKeepsDataOrder(t *testing.T) {
	cm := k8s.ConfigMap{
		Metadata: k8s.Meta{Name: "app-config", Namespace: "batch"},
		Data: k8s.DataEntries{
			{Key: "ZONE", Value: "eu-1"},
			{Key: "ACME_URL", Value: "https://acme.example.com"},
			{Key: "MODE", Value: "batch"},
		},
	}

	decoded, err := Decode(ConfigMap(cm))
	require.NoError(t, err)
	assert.Equal(t, cm, decoded)

	s := k8s.Secret{
		Metadata: k8s.Meta{Name: "db-creds", Namespace: "batch"},
		Type:     k8s.SecretTypeOpaque,
		Data: k8s.DataEntries{
			{Key: "username", Value: "svc"},
			{Key: "password", Value: "hunter2"},
		},
	}

	decodedSecret, err := Decode(Secret(s))
	require.NoError(t, err)
	assert.Equal(t, s, decodedSecret)
}

func TestDecodeFoldsImpliedDocuments(t *testing.T) {
	dep := fixtureDeployment()

	models, err := DecodeAll(Deployment(dep))
	require.NoError(t, err)
	require.Len(t, models, 1)
	assert.Equal(t, dep, models[0])

	ds := k8s.DaemonSet{
		Name:           "node-agent",
		Namespace:      "kube-system",
		Image:          "registry.example.com/agent:1.0",
		Port:           "9100",
		ServiceEnabled: true,
	}
	models, err = DecodeAll(DaemonSet(ds))
	require.NoError(t, err)
	require.Len(t, models, 1)
	assert.Equal(t, ds, models[0])
}

func TestRenderDecodeRenderIsByteIdentical(t *testing.T) {
	off := false
	resources := []any{
		k8s.Namespace{Name: "batch", Labels: k8s.Labels{{Key: "team", Value: "data"}}},
		k8s.ConfigMap{
			Metadata: k8s.Meta{Name: "app-config", Namespace: "batch"},
			Data:     k8s.DataEntries{{Key: "LOG_LEVEL", Value: "info"}},
		},
		k8s.Secret{
			Metadata: k8s.Meta{Name: "db-creds", Namespace: "batch"},
			Type:     k8s.SecretTypeOpaque,
			Data:     k8s.DataEntries{{Key: "password", Value: "hunter2"}},
		},
		k8s.ServiceAccount{
			Metadata:  k8s.Meta{Name: "runner", Namespace: "batch"},
			Automount: &off,
			Secrets:   []k8s.ObjectRef{{Name: "runner-token"}},
		},
		k8s.Role{
			Metadata: k8s.Meta{Name: "log-reader", Namespace: "batch"},
			Rules: []k8s.PolicyRule{
				{APIGroups: []string{""}, Resources: []string{"pods"}, Verbs: []string{"get"}},
			},
		},
		k8s.RoleBinding{
			Metadata: k8s.Meta{Name: "log-reader-binding", Namespace: "batch"},
			RoleRef:  k8s.RoleRef{Kind: k8s.KindRole, Name: "log-reader"},
			Subjects: []k8s.Subject{
				{Kind: k8s.SubjectServiceAccount, Name: "runner", Namespace: "batch"},
			},
		},
		fixtureJob(),
		k8s.CronJob{
			Metadata:          k8s.Meta{Name: "nightly", Namespace: "batch"},
			Schedule:          "0 2 * * *",
			ConcurrencyPolicy: k8s.ConcurrencyAllow,
			Containers:        []k8s.Container{{Name: "night", Image: "img:1"}},
			RestartPolicy:     k8s.RestartNever,
		},
		fixtureDeployment(),
		k8s.DaemonSet{
			Name:           "node-agent",
			Namespace:      "kube-system",
			Image:          "registry.example.com/agent:1.0",
			Port:           "9100",
			ServiceEnabled: true,
		},
		k8s.Job{},
		k8s.Deployment{},
	}

	first, err := RenderAll(resources)
	require.NoError(t, err)

	decoded, err := DecodeAll(first)
	require.NoError(t, err)

	second, err := RenderAll(decoded)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestDecodeRejectsStandaloneCompanions(t *testing.T) {
	docs := splitDocs(Deployment(fixtureDeployment()))
	require.Len(t, docs, 3)

	_, err := Decode(docs[1])
	require.Error(t, err)
	assert.Contains(t, err.Error(), "owning workload")

	// A service with no preceding workload cannot be folded either.
	_, err = DecodeAll(docs[1])
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not follow")
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode("apiVersion: v1\nkind: Pod\nmetadata:\n  name: p\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported kind "Pod"`)

	_, err = Decode("just: yaml\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no kind")

	badSecret := `apiVersion: v1
kind: Secret
metadata:
  name: db-creds
  namespace: batch
  labels: {}
type: Opaque
data:
  password: "not base64!!"
`
	_, err = Decode(badSecret)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `secret key "password"`)
}
