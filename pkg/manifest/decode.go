package manifest

import (
	"encoding/base64"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"manifest-kit/pkg/k8s"
)

// Decode parses a single manifest document back into its resource
// configuration. Service and Ingress documents never stand alone in this
// builder's output; DecodeAll folds them into the workload that owns them.
func Decode(text string) (any, error) {
	var w wireDoc
	if err := yaml.Unmarshal([]byte(text), &w); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	switch w.Kind {
	case k8s.KindService, k8s.KindIngress:
		return nil, fmt.Errorf("a %s document only appears alongside its owning workload", w.Kind)
	}
	return decodeDoc(w)
}

// DecodeAll parses a multi-document manifest stream. Service and Ingress
// documents are folded back into the Deployment or DaemonSet rendered just
// before them, restoring the configuration RenderAll started from.
func DecodeAll(text string) ([]any, error) {
	var out []any
	for i, docText := range splitDocs(text) {
		var w wireDoc
		if err := yaml.Unmarshal([]byte(docText), &w); err != nil {
			return nil, fmt.Errorf("parse document %d: %w", i+1, err)
		}
		switch w.Kind {
		case k8s.KindService:
			if err := foldService(out, w); err != nil {
				return nil, fmt.Errorf("document %d: %w", i+1, err)
			}
		case k8s.KindIngress:
			if err := foldIngress(out, w); err != nil {
				return nil, fmt.Errorf("document %d: %w", i+1, err)
			}
		default:
			res, err := decodeDoc(w)
			if err != nil {
				return nil, fmt.Errorf("document %d: %w", i+1, err)
			}
			out = append(out, res)
		}
	}
	return out, nil
}

// splitDocs cuts a stream on bare --- separator lines, dropping empty
// documents.
func splitDocs(text string) []string {
	var docs []string
	var cur []string
	flush := func() {
		d := strings.Join(cur, "\n")
		if strings.TrimSpace(d) != "" {
			docs = append(docs, d)
		}
		cur = cur[:0]
	}
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "---" {
			flush()
			continue
		}
		cur = append(cur, line)
	}
	flush()
	return docs
}

func decodeDoc(w wireDoc) (any, error) {
	switch w.Kind {
	case k8s.KindJob:
		return toJob(w)
	case k8s.KindCronJob:
		return toCronJob(w)
	case k8s.KindRole, k8s.KindClusterRole:
		return toRole(w), nil
	case k8s.KindRoleBinding, k8s.KindClusterRoleBinding:
		return toRoleBinding(w), nil
	case k8s.KindConfigMap:
		return toConfigMap(w), nil
	case k8s.KindSecret:
		return toSecret(w)
	case k8s.KindServiceAccount:
		return toServiceAccount(w), nil
	case k8s.KindNamespace:
		return toNamespace(w), nil
	case k8s.KindDeployment:
		return toDeployment(w)
	case k8s.KindDaemonSet:
		return toDaemonSet(w)
	case "":
		return nil, fmt.Errorf("document has no kind")
	default:
		return nil, fmt.Errorf("unsupported kind %q", w.Kind)
	}
}

// Wire types mirror the rendered shapes. Each document's spec mapping is
// kept as a yaml node and decoded per kind; numeric fields decode into
// strings so the raw scalar text survives unchanged.
type wireDoc struct {
	APIVersion       string        `yaml:"apiVersion"`
	Kind             string        `yaml:"kind"`
	Metadata         wireMeta      `yaml:"metadata"`
	Spec             yaml.Node     `yaml:"spec"`
	Rules            []wireRule    `yaml:"rules"`
	RoleRef          *wireRoleRef  `yaml:"roleRef"`
	Subjects         []wireSubject `yaml:"subjects"`
	Type             string        `yaml:"type"`
	Data             orderedMap    `yaml:"data"`
	Automount        *bool         `yaml:"automountServiceAccountToken"`
	Secrets          []wireNameRef `yaml:"secrets"`
	ImagePullSecrets []wireNameRef `yaml:"imagePullSecrets"`
}

type wireMeta struct {
	Name      string     `yaml:"name"`
	Namespace string     `yaml:"namespace"`
	Labels    orderedMap `yaml:"labels"`
}

type wireNameRef struct {
	Name string `yaml:"name"`
}

type wireRule struct {
	APIGroups []string `yaml:"apiGroups"`
	Resources []string `yaml:"resources"`
	Verbs     []string `yaml:"verbs"`
}

type wireRoleRef struct {
	APIGroup string `yaml:"apiGroup"`
	Kind     string `yaml:"kind"`
	Name     string `yaml:"name"`
}

type wireSubject struct {
	Kind      string `yaml:"kind"`
	Name      string `yaml:"name"`
	Namespace string `yaml:"namespace"`
	APIGroup  string `yaml:"apiGroup"`
}

type wireJobSpec struct {
	Parallelism  string          `yaml:"parallelism"`
	Completions  string          `yaml:"completions"`
	BackoffLimit string          `yaml:"backoffLimit"`
	Template     wirePodTemplate `yaml:"template"`
}

type wireCronSpec struct {
	Schedule                   string `yaml:"schedule"`
	ConcurrencyPolicy          string `yaml:"concurrencyPolicy"`
	StartingDeadlineSeconds    string `yaml:"startingDeadlineSeconds"`
	SuccessfulJobsHistoryLimit string `yaml:"successfulJobsHistoryLimit"`
	FailedJobsHistoryLimit     string `yaml:"failedJobsHistoryLimit"`
	JobTemplate                struct {
		Spec wireJobSpec `yaml:"spec"`
	} `yaml:"jobTemplate"`
}

type wirePodTemplate struct {
	Metadata wireMeta    `yaml:"metadata"`
	Spec     wirePodSpec `yaml:"spec"`
}

type wirePodSpec struct {
	Containers    []wireContainer `yaml:"containers"`
	RestartPolicy string          `yaml:"restartPolicy"`
}

type wireContainer struct {
	Name         string         `yaml:"name"`
	Image        string         `yaml:"image"`
	Command      []string       `yaml:"command"`
	Args         []string       `yaml:"args"`
	Ports        []wirePort     `yaml:"ports"`
	Env          []wireEnvVar   `yaml:"env"`
	VolumeMounts []wireMount    `yaml:"volumeMounts"`
	Resources    *wireResources `yaml:"resources"`
}

type wirePort struct {
	ContainerPort string `yaml:"containerPort"`
}

type wireEnvVar struct {
	Name      string       `yaml:"name"`
	Value     string       `yaml:"value"`
	ValueFrom *wireEnvFrom `yaml:"valueFrom"`
}

type wireEnvFrom struct {
	ConfigMapKeyRef *wireKeyRef `yaml:"configMapKeyRef"`
	SecretKeyRef    *wireKeyRef `yaml:"secretKeyRef"`
}

type wireKeyRef struct {
	Name string `yaml:"name"`
	Key  string `yaml:"key"`
}

type wireMount struct {
	Name      string `yaml:"name"`
	MountPath string `yaml:"mountPath"`
}

type wireResources struct {
	Requests *wireQuantity `yaml:"requests"`
	Limits   *wireQuantity `yaml:"limits"`
}

type wireQuantity struct {
	CPU    string `yaml:"cpu"`
	Memory string `yaml:"memory"`
}

type wireDeploySpec struct {
	Replicas string          `yaml:"replicas"`
	Template wirePodTemplate `yaml:"template"`
}

// wireServiceSpec reads only the service type; the port pair is derived
// from the owning workload when folding, not from the service document.
type wireServiceSpec struct {
	Type string `yaml:"type"`
}

type wireIngressSpec struct {
	Rules []struct {
		Host string `yaml:"host"`
		HTTP struct {
			Paths []struct {
				Path string `yaml:"path"`
			} `yaml:"paths"`
		} `yaml:"http"`
	} `yaml:"rules"`
}

// orderedMap preserves mapping key order, which rendered labels and data
// blocks rely on. Values must be scalars; their raw text is kept.
type orderedMap []orderedPair

type orderedPair struct {
	Key   string
	Value string
}

func (m *orderedMap) UnmarshalYAML(value *yaml.Node) error {
	if value.Tag == "!!null" {
		return nil
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("expected a mapping, got %s", value.Tag)
	}
	for i := 0; i+1 < len(value.Content); i += 2 {
		key := value.Content[i]
		val := value.Content[i+1]
		if val.Kind != yaml.ScalarNode {
			return fmt.Errorf("mapping value for %q is not a scalar", key.Value)
		}
		*m = append(*m, orderedPair{Key: key.Value, Value: val.Value})
	}
	return nil
}

func toMeta(w wireMeta) k8s.Meta {
	return k8s.Meta{Name: w.Name, Namespace: w.Namespace, Labels: toLabels(w.Labels)}
}

func toLabels(m orderedMap) k8s.Labels {
	var labels k8s.Labels
	for _, p := range m {
		labels = append(labels, k8s.Label{Key: p.Key, Value: p.Value})
	}
	return labels
}

func toDataEntries(m orderedMap) k8s.DataEntries {
	var data k8s.DataEntries
	for _, p := range m {
		data = append(data, k8s.DataEntry{Key: p.Key, Value: p.Value})
	}
	return data
}

func toJob(w wireDoc) (k8s.Job, error) {
	var spec wireJobSpec
	if w.Spec.Kind != 0 {
		if err := w.Spec.Decode(&spec); err != nil {
			return k8s.Job{}, fmt.Errorf("job spec: %w", err)
		}
	}
	containers, err := toContainers(spec.Template.Spec.Containers)
	if err != nil {
		return k8s.Job{}, err
	}
	return k8s.Job{
		Metadata:      toMeta(w.Metadata),
		Containers:    containers,
		RestartPolicy: k8s.RestartPolicy(spec.Template.Spec.RestartPolicy),
		Parallelism:   spec.Parallelism,
		Completions:   spec.Completions,
		BackoffLimit:  spec.BackoffLimit,
	}, nil
}

func toCronJob(w wireDoc) (k8s.CronJob, error) {
	var spec wireCronSpec
	if w.Spec.Kind != 0 {
		if err := w.Spec.Decode(&spec); err != nil {
			return k8s.CronJob{}, fmt.Errorf("cronjob spec: %w", err)
		}
	}
	job := spec.JobTemplate.Spec
	containers, err := toContainers(job.Template.Spec.Containers)
	if err != nil {
		return k8s.CronJob{}, err
	}
	return k8s.CronJob{
		Metadata:                   toMeta(w.Metadata),
		Schedule:                   spec.Schedule,
		ConcurrencyPolicy:          k8s.ConcurrencyPolicy(spec.ConcurrencyPolicy),
		StartingDeadlineSeconds:    spec.StartingDeadlineSeconds,
		SuccessfulJobsHistoryLimit: spec.SuccessfulJobsHistoryLimit,
		FailedJobsHistoryLimit:     spec.FailedJobsHistoryLimit,
		Containers:                 containers,
		RestartPolicy:              k8s.RestartPolicy(job.Template.Spec.RestartPolicy),
		Parallelism:                job.Parallelism,
		Completions:                job.Completions,
		BackoffLimit:               job.BackoffLimit,
	}, nil
}

func toContainers(wires []wireContainer) ([]k8s.Container, error) {
	var containers []k8s.Container
	for _, w := range wires {
		c, err := toContainer(w)
		if err != nil {
			return nil, fmt.Errorf("container %q: %w", w.Name, err)
		}
		containers = append(containers, c)
	}
	return containers, nil
}

func toContainer(w wireContainer) (k8s.Container, error) {
	c := k8s.Container{
		Name:    w.Name,
		Image:   w.Image,
		Command: strings.Join(w.Command, " "),
		Args:    strings.Join(w.Args, " "),
	}
	for _, e := range w.Env {
		ev, err := toEnvVar(e)
		if err != nil {
			return k8s.Container{}, err
		}
		c.Env = append(c.Env, ev)
	}
	for _, m := range w.VolumeMounts {
		c.VolumeMounts = append(c.VolumeMounts, k8s.VolumeMount{Name: m.Name, MountPath: m.MountPath})
	}
	c.Resources = toResources(w.Resources)
	return c, nil
}

func toEnvVar(w wireEnvVar) (k8s.EnvVar, error) {
	ev := k8s.EnvVar{Name: w.Name, Value: w.Value}
	if w.ValueFrom == nil {
		return ev, nil
	}
	switch {
	case w.ValueFrom.ConfigMapKeyRef != nil:
		ev.ValueFrom = &k8s.EnvVarRef{
			Kind: k8s.EnvRefConfigMap,
			Name: w.ValueFrom.ConfigMapKeyRef.Name,
			Key:  w.ValueFrom.ConfigMapKeyRef.Key,
		}
	case w.ValueFrom.SecretKeyRef != nil:
		ev.ValueFrom = &k8s.EnvVarRef{
			Kind: k8s.EnvRefSecret,
			Name: w.ValueFrom.SecretKeyRef.Name,
			Key:  w.ValueFrom.SecretKeyRef.Key,
		}
	default:
		return k8s.EnvVar{}, fmt.Errorf("env %q: valueFrom needs configMapKeyRef or secretKeyRef", w.Name)
	}
	return ev, nil
}

func toResources(w *wireResources) k8s.ResourceRequirements {
	var r k8s.ResourceRequirements
	if w == nil {
		return r
	}
	if w.Requests != nil {
		r.Requests = k8s.ResourceQuantity{CPU: w.Requests.CPU, Memory: w.Requests.Memory}
	}
	if w.Limits != nil {
		r.Limits = k8s.ResourceQuantity{CPU: w.Limits.CPU, Memory: w.Limits.Memory}
	}
	return r
}

func toRole(w wireDoc) k8s.Role {
	r := k8s.Role{
		Metadata:      toMeta(w.Metadata),
		ClusterScoped: w.Kind == k8s.KindClusterRole,
	}
	for _, rule := range w.Rules {
		r.Rules = append(r.Rules, k8s.PolicyRule{
			APIGroups: rule.APIGroups,
			Resources: rule.Resources,
			Verbs:     rule.Verbs,
		})
	}
	return r
}

func toRoleBinding(w wireDoc) k8s.RoleBinding {
	b := k8s.RoleBinding{
		Metadata:      toMeta(w.Metadata),
		ClusterScoped: w.Kind == k8s.KindClusterRoleBinding,
	}
	if w.RoleRef != nil {
		b.RoleRef = k8s.RoleRef{Kind: w.RoleRef.Kind, Name: w.RoleRef.Name}
	}
	for _, s := range w.Subjects {
		b.Subjects = append(b.Subjects, k8s.Subject{
			Kind:      k8s.SubjectKind(s.Kind),
			Name:      s.Name,
			Namespace: s.Namespace,
		})
	}
	return b
}

func toConfigMap(w wireDoc) k8s.ConfigMap {
	return k8s.ConfigMap{Metadata: toMeta(w.Metadata), Data: toDataEntries(w.Data)}
}

func toSecret(w wireDoc) (k8s.Secret, error) {
	s := k8s.Secret{Metadata: toMeta(w.Metadata), Type: k8s.SecretType(w.Type)}
	for _, p := range w.Data {
		raw, err := base64.StdEncoding.DecodeString(p.Value)
		if err != nil {
			return k8s.Secret{}, fmt.Errorf("secret key %q: %w", p.Key, err)
		}
		s.Data = append(s.Data, k8s.DataEntry{Key: p.Key, Value: string(raw)})
	}
	return s, nil
}

func toServiceAccount(w wireDoc) k8s.ServiceAccount {
	sa := k8s.ServiceAccount{Metadata: toMeta(w.Metadata), Automount: w.Automount}
	for _, ref := range w.Secrets {
		sa.Secrets = append(sa.Secrets, k8s.ObjectRef{Name: ref.Name})
	}
	for _, ref := range w.ImagePullSecrets {
		sa.ImagePullSecrets = append(sa.ImagePullSecrets, k8s.ObjectRef{Name: ref.Name})
	}
	return sa
}

func toNamespace(w wireDoc) k8s.Namespace {
	return k8s.Namespace{Name: w.Metadata.Name, Labels: toLabels(w.Metadata.Labels)}
}

// userLabels strips the implied app label the renderer prepends to
// app-anchored kinds.
func userLabels(labels k8s.Labels) k8s.Labels {
	var out k8s.Labels
	for _, l := range labels {
		if l.Key != "app" {
			out = append(out, l)
		}
	}
	return out
}

func toDeployment(w wireDoc) (k8s.Deployment, error) {
	var spec wireDeploySpec
	if w.Spec.Kind != 0 {
		if err := w.Spec.Decode(&spec); err != nil {
			return k8s.Deployment{}, fmt.Errorf("deployment spec: %w", err)
		}
	}
	if len(spec.Template.Spec.Containers) == 0 {
		return k8s.Deployment{}, fmt.Errorf("deployment has no containers")
	}
	c := spec.Template.Spec.Containers[0]
	d := k8s.Deployment{
		AppName:   w.Metadata.Name,
		Namespace: w.Metadata.Namespace,
		Labels:    userLabels(toLabels(w.Metadata.Labels)),
		Image:     c.Image,
		Replicas:  spec.Replicas,
	}
	if len(c.Ports) > 0 {
		d.Port = c.Ports[0].ContainerPort
	}
	for _, e := range c.Env {
		ev, err := toEnvVar(e)
		if err != nil {
			return k8s.Deployment{}, err
		}
		d.Env = append(d.Env, ev)
	}
	d.Resources = toResources(c.Resources)
	return d, nil
}

func toDaemonSet(w wireDoc) (k8s.DaemonSet, error) {
	var spec wireDeploySpec
	if w.Spec.Kind != 0 {
		if err := w.Spec.Decode(&spec); err != nil {
			return k8s.DaemonSet{}, fmt.Errorf("daemonset spec: %w", err)
		}
	}
	if len(spec.Template.Spec.Containers) == 0 {
		return k8s.DaemonSet{}, fmt.Errorf("daemonset has no containers")
	}
	c := spec.Template.Spec.Containers[0]
	ds := k8s.DaemonSet{
		Name:      w.Metadata.Name,
		Namespace: w.Metadata.Namespace,
		Labels:    userLabels(toLabels(w.Metadata.Labels)),
		Image:     c.Image,
		Resources: toResources(c.Resources),
	}
	if len(c.Ports) > 0 {
		ds.Port = c.Ports[0].ContainerPort
	}
	return ds, nil
}

// foldService attaches a rendered Service back onto the workload that
// implied it, which must be the last decoded resource.
func foldService(out []any, w wireDoc) error {
	var spec wireServiceSpec
	if w.Spec.Kind != 0 {
		if err := w.Spec.Decode(&spec); err != nil {
			return fmt.Errorf("service spec: %w", err)
		}
	}
	if len(out) > 0 {
		switch owner := out[len(out)-1].(type) {
		case k8s.Deployment:
			if owner.AppName == w.Metadata.Name {
				owner.ServiceType = k8s.ServiceType(spec.Type)
				out[len(out)-1] = owner
				return nil
			}
		case k8s.DaemonSet:
			if owner.Name == w.Metadata.Name {
				owner.ServiceEnabled = true
				out[len(out)-1] = owner
				return nil
			}
		}
	}
	return fmt.Errorf("service %q does not follow its owning workload", w.Metadata.Name)
}

// foldIngress attaches a rendered Ingress back onto the Deployment that
// implied it.
func foldIngress(out []any, w wireDoc) error {
	var spec wireIngressSpec
	if w.Spec.Kind != 0 {
		if err := w.Spec.Decode(&spec); err != nil {
			return fmt.Errorf("ingress spec: %w", err)
		}
	}
	if len(out) > 0 {
		if owner, ok := out[len(out)-1].(k8s.Deployment); ok && owner.AppName == w.Metadata.Name {
			ing := k8s.Ingress{Enabled: true}
			if len(spec.Rules) > 0 {
				ing.Host = spec.Rules[0].Host
				if len(spec.Rules[0].HTTP.Paths) > 0 {
					ing.Path = spec.Rules[0].HTTP.Paths[0].Path
				}
			}
			owner.Ingress = ing
			out[len(out)-1] = owner
			return nil
		}
	}
	return fmt.Errorf("ingress %q does not follow its owning deployment", w.Metadata.Name)
}
