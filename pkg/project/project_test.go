package project

import (
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"manifest-kit/pkg/k8s"
)

func testJob() k8s.Job {
	j := k8s.NewJob()
	j.Metadata.Name = "sync-job"
	j.Metadata.Namespace = "batch"
	j.Containers[0].Name = "worker"
	j.Containers[0].Image = "registry.example.com/sync:1.4.2"
	return j
}

func testRole(name string) k8s.Role {
	r := k8s.NewRole(false)
	r.Metadata.Name = name
	r.Metadata.Namespace = "batch"
	r.Rules[0].Resources = []string{"pods"}
	r.Rules[0].Verbs = []string{"get"}
	return r
}

func mustUpsert(t *testing.T, p Project, id uuid.UUID, res any) (Project, uuid.UUID) {
	t.Helper()
	result, err := p.Upsert(id, res)
	require.NoError(t, err)
	require.True(t, result.Errors.OK(), "unexpected errors: %v", result.Errors)
	return result.Project, result.ID
}

func TestUpsertValidatesFirst(t *testing.T) {
	p := New("demo")

	bad := testJob()
	bad.Metadata.Name = ""
	result, err := p.Upsert(uuid.Nil, bad)
	require.NoError(t, err)
	assert.Equal(t, "name is required", result.Errors["name"])
	assert.Empty(t, result.Project.Entries, "a failed save must not grow the project")

	p, id := mustUpsert(t, p, uuid.Nil, testJob())
	assert.NotEqual(t, uuid.Nil, id)
	require.Len(t, p.Entries, 1)

	_, err = p.Upsert(uuid.Nil, 42)
	require.Error(t, err)
}

func TestUpsertReplacesByID(t *testing.T) {
	p, id := mustUpsert(t, New("demo"), uuid.Nil, testJob())

	updated := testJob()
	updated.BackoffLimit = "3"
	p, sameID := mustUpsert(t, p, id, updated)
	assert.Equal(t, id, sameID)
	require.Len(t, p.Entries, 1)

	entry, ok := p.Entry(id)
	require.True(t, ok)
	assert.Equal(t, "3", entry.Resource.(k8s.Job).BackoffLimit)
}

func TestUpsertRoleUniqueness(t *testing.T) {
	p, id := mustUpsert(t, New("demo"), uuid.Nil, testRole("log-reader"))

	// Editing the same entry keeps its name without colliding with itself.
	renamed := testRole("log-reader")
	renamed.Rules[0].Verbs = []string{"get", "list"}
	p, _ = mustUpsert(t, p, id, renamed)

	// A second entry under the taken name is rejected and changes nothing.
	result, err := p.Upsert(uuid.Nil, testRole("log-reader"))
	require.NoError(t, err)
	assert.Contains(t, result.Errors["name"], "already exists")
	assert.Len(t, result.Project.Entries, 1)

	// A different name is free.
	_, _ = mustUpsert(t, p, uuid.Nil, testRole("pod-reader"))
}

func TestRemove(t *testing.T) {
	p, id := mustUpsert(t, New("demo"), uuid.Nil, testJob())

	p, removed := p.Remove(id)
	assert.True(t, removed)
	assert.Empty(t, p.Entries)

	_, removed = p.Remove(uuid.New())
	assert.False(t, removed)
}

func TestProjectIsolation(t *testing.T) {
	j := testJob()
	p, id := mustUpsert(t, New("demo"), uuid.Nil, j)

	// Mutating the caller's copy after the save must not reach the store.
	j.Containers[0].Image = "tampered"
	entry, ok := p.Entry(id)
	require.True(t, ok)
	assert.Equal(t, "registry.example.com/sync:1.4.2", entry.Resource.(k8s.Job).Containers[0].Image)

	// Mutating a returned entry must not reach the store either.
	entry.Resource.(k8s.Job).Containers[0].Env = append(entry.Resource.(k8s.Job).Containers[0].Env, k8s.EnvVar{Name: "X"})
	again, _ := p.Entry(id)
	assert.Empty(t, again.Resource.(k8s.Job).Containers[0].Env)
}

func TestCheckCountsImpliedDocuments(t *testing.T) {
	dep := k8s.NewDeployment()
	dep.AppName = "web"
	dep.Namespace = "frontend"
	dep.Image = "registry.example.com/web:3.1"
	dep.Port = "8080"
	dep.Ingress = k8s.Ingress{Enabled: true, Host: "web.example.com", Path: "/"}

	ds := k8s.NewDaemonSet()
	ds.Name = "node-agent"
	ds.Namespace = "kube-system"
	ds.Image = "registry.example.com/agent:1.0"
	ds.Port = "9100"
	ds.ServiceEnabled = true

	p := New("demo")
	p, _ = mustUpsert(t, p, uuid.Nil, dep)
	p, _ = mustUpsert(t, p, uuid.Nil, ds)
	p, _ = mustUpsert(t, p, uuid.Nil, testJob())

	report := p.Check()
	assert.True(t, report.Valid)
	assert.Equal(t, 6, report.ResourceCount) // 3 + 2 + 1
	assert.Equal(t, map[string]int{
		k8s.KindDeployment: 1,
		k8s.KindService:    2,
		k8s.KindIngress:    1,
		k8s.KindDaemonSet:  1,
		k8s.KindJob:        1,
	}, report.Kinds)

	// The rendered stream carries exactly as many documents.
	out, err := p.RenderAll()
	require.NoError(t, err)
	assert.Equal(t, report.ResourceCount, strings.Count(out, "---\n")+1)
}

func TestCheckCountsUnnamedDaemonSet(t *testing.T) {
	// The renderer skips the companion service while the daemon set has no
	// name, so the count stays at one document even with the flag set.
	ds := k8s.NewDaemonSet()
	ds.ServiceEnabled = true

	p := New("demo")
	p.Entries = append(p.Entries, Entry{ID: uuid.New(), Resource: ds})

	report := p.Check()
	assert.False(t, report.Valid)
	assert.Equal(t, 1, report.ResourceCount)
	assert.Equal(t, map[string]int{k8s.KindDaemonSet: 1}, report.Kinds)

	out, err := p.RenderAll()
	require.NoError(t, err)
	assert.Equal(t, report.ResourceCount, strings.Count(out, "---\n")+1)
}

func TestRenderFiles(t *testing.T) {
	cm := k8s.NewConfigMap()
	cm.Metadata.Name = "app-config"
	cm.Metadata.Namespace = "batch"

	p := New("demo")
	p, _ = mustUpsert(t, p, uuid.Nil, testJob())
	p, _ = mustUpsert(t, p, uuid.Nil, cm)
	// Same identity twice: the second file gets a numeric suffix.
	p.Entries = append(p.Entries, Entry{ID: uuid.New(), Resource: testJob()})
	// No name yet: the file is named by position.
	p.Entries = append(p.Entries, Entry{ID: uuid.New(), Resource: k8s.NewSecret()})

	files, err := p.RenderFiles()
	require.NoError(t, err)
	require.Len(t, files, 4)
	assert.Equal(t, "sync-job-job.yaml", files[0].Name)
	assert.Equal(t, "app-config-configmap.yaml", files[1].Name)
	assert.Equal(t, "sync-job-job-2.yaml", files[2].Name)
	assert.Equal(t, "secret-4.yaml", files[3].Name)
	assert.Contains(t, files[0].Content, "kind: Job")
	assert.Contains(t, files[1].Content, "kind: ConfigMap")
}

func TestCheckReportsEntryErrors(t *testing.T) {
	j := testJob()
	j.Containers[0].Env = []k8s.EnvVar{{
		Name:      "LOG_LEVEL",
		ValueFrom: &k8s.EnvVarRef{Kind: k8s.EnvRefConfigMap, Name: "app-config", Key: "LOG_LEVEL"},
	}}

	// The reference has no target yet: the job fails the aggregate check.
	p := New("demo")
	p.Entries = append(p.Entries, Entry{ID: uuid.New(), Resource: j})

	report := p.Check()
	assert.False(t, report.Valid)
	errs, ok := report.Errors["Job/batch/sync-job"]
	require.True(t, ok, "errors: %v", report.Errors)
	assert.Contains(t, errs["container-0-env-0-ref"], "not found")

	// Adding the config map the env var points at makes the project clean.
	cm := k8s.NewConfigMap()
	cm.Metadata.Name = "app-config"
	cm.Metadata.Namespace = "batch"
	cm.Data = k8s.DataEntries{{Key: "LOG_LEVEL", Value: "info"}}
	p, _ = mustUpsert(t, p, uuid.Nil, cm)

	report = p.Check()
	assert.True(t, report.Valid, "errors: %v", report.Errors)
}

func TestCheckDisambiguatesDuplicateIdentities(t *testing.T) {
	first := testJob()
	second := testJob()
	second.Metadata.Name = ""

	p := New("demo")
	p.Entries = append(p.Entries,
		Entry{ID: uuid.New(), Resource: first},
		Entry{ID: uuid.New(), Resource: second},
	)
	// Two more sharing one identity.
	third := testJob()
	third.RestartPolicy = "Always"
	p.Entries = append(p.Entries, Entry{ID: uuid.New(), Resource: third})

	report := p.Check()
	assert.Contains(t, report.Errors, "Job/batch/")
	assert.Contains(t, report.Errors, "Job/batch/sync-job#2")
}

func TestSaveLoadRoundTrip(t *testing.T) {
	sec := k8s.NewSecret()
	sec.Metadata.Name = "db-creds"
	sec.Metadata.Namespace = "batch"
	sec.Data = k8s.DataEntries{{Key: "password", Value: "hunter2"}}

	cr := k8s.NewRole(true)
	cr.Metadata.Name = "node-reader"
	cr.Rules[0].Resources = []string{"nodes"}
	cr.Rules[0].Verbs = []string{"get", "list"}

	p := New("demo")
	p, _ = mustUpsert(t, p, uuid.Nil, testJob())
	p, _ = mustUpsert(t, p, uuid.Nil, sec)
	p, _ = mustUpsert(t, p, uuid.Nil, cr)

	path := t.TempDir() + "/project.yaml"
	require.NoError(t, p.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, p, loaded)
}

func TestLoadAssignsMissingIDs(t *testing.T) {
	raw := `name: handwritten
resources:
  - kind: Namespace
    namespace:
      name: batch
  - kind: ClusterRole
    role:
      metadata:
        name: node-reader
      rules:
        - apiGroups: [""]
          resources: ["nodes"]
          verbs: ["get"]
`
	path := t.TempDir() + "/project.yaml"
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	p, err := Load(path)
	require.NoError(t, err)
	require.Len(t, p.Entries, 2)
	assert.NotEqual(t, uuid.Nil, p.Entries[0].ID)
	assert.NotEqual(t, p.Entries[0].ID, p.Entries[1].ID)

	role, ok := p.Entries[1].Resource.(k8s.Role)
	require.True(t, ok)
	assert.True(t, role.ClusterScoped, "kind ClusterRole must set the scope flag")
}

func TestLoadRejectsBrokenEntries(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "unknown kind",
			raw:  "name: x\nresources:\n  - kind: Pod\n",
			want: `unsupported kind "Pod"`,
		},
		{
			name: "missing payload",
			raw:  "name: x\nresources:\n  - kind: Job\n",
			want: "no payload",
		},
		{
			name: "bad id",
			raw:  "name: x\nresources:\n  - kind: Namespace\n    id: not-a-uuid\n    namespace:\n      name: batch\n",
			want: `id "not-a-uuid"`,
		},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			path := t.TempDir() + "/project.yaml"
			require.NoError(t, os.WriteFile(path, []byte(tt.raw), 0o644))
			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
