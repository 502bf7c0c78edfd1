package k8s

// EnvRefKind selects which store an EnvVar reference reads from.
type EnvRefKind string

const (
	EnvRefConfigMap EnvRefKind = "configMap"
	EnvRefSecret    EnvRefKind = "secret"
)

// EnvVarRef points an environment variable at a key of a ConfigMap or Secret
// in the workload's namespace. An unresolved reference (object or key missing)
// is kept in the model and flagged by validation, never discarded.
type EnvVarRef struct {
	Kind EnvRefKind `json:"kind"`
	Name string     `json:"name"`
	Key  string     `json:"key"`
}

// EnvVar is one environment variable of a container. Exactly one of Value and
// ValueFrom may be set on a valid instance; the model tolerates intermediate
// states while the user edits.
type EnvVar struct {
	Name      string     `json:"name"`
	Value     string     `json:"value,omitempty"`
	ValueFrom *EnvVarRef `json:"valueFrom,omitempty"`
}

// Clone returns a deep copy of the env var.
func (e EnvVar) Clone() EnvVar {
	if e.ValueFrom != nil {
		ref := *e.ValueFrom
		e.ValueFrom = &ref
	}
	return e
}

// ResourceQuantity holds cpu and memory amounts in Kubernetes quantity syntax
// ("100m", "128Mi"). Both are free-text form fields and may be empty.
type ResourceQuantity struct {
	CPU    string `json:"cpu,omitempty"`
	Memory string `json:"memory,omitempty"`
}

// IsZero reports whether neither cpu nor memory is set.
func (q ResourceQuantity) IsZero() bool {
	return q.CPU == "" && q.Memory == ""
}

// ResourceRequirements pairs requested resources with optional limits.
type ResourceRequirements struct {
	Requests ResourceQuantity `json:"requests,omitempty"`
	Limits   ResourceQuantity `json:"limits,omitempty"`
}

// VolumeMount mounts a named volume into the container filesystem.
type VolumeMount struct {
	Name      string `json:"name"`
	MountPath string `json:"mountPath"`
}

// Container is one container of a workload pod template. Command and Args are
// kept as the raw whitespace-separated token strings the user typed; the
// serializer splits them.
type Container struct {
	Name         string               `json:"name"`
	Image        string               `json:"image"`
	Command      string               `json:"command,omitempty"`
	Args         string               `json:"args,omitempty"`
	Env          []EnvVar             `json:"env,omitempty"`
	Resources    ResourceRequirements `json:"resources,omitempty"`
	VolumeMounts []VolumeMount        `json:"volumeMounts,omitempty"`
}

// NewContainer returns the empty container a freshly added workload starts
// with.
func NewContainer() Container {
	return Container{}
}

// Clone returns a deep copy of the container.
func (c Container) Clone() Container {
	if c.Env != nil {
		env := make([]EnvVar, len(c.Env))
		for i, e := range c.Env {
			env[i] = e.Clone()
		}
		c.Env = env
	}
	if c.VolumeMounts != nil {
		mounts := make([]VolumeMount, len(c.VolumeMounts))
		copy(mounts, c.VolumeMounts)
		c.VolumeMounts = mounts
	}
	return c
}

// DuplicateContainerAt returns a new slice with a deep copy of the container
// at index i inserted right after it, the copy's name suffixed with -copy
// when the source name is non-empty.
func DuplicateContainerAt(list []Container, i int) []Container {
	if i < 0 || i >= len(list) {
		return list
	}
	dup := list[i].Clone()
	dup.Name = copyName(dup.Name)
	return InsertAfter(list, i, dup)
}

// DuplicateEnvVarAt returns a new slice with a deep copy of the env var at
// index i inserted right after it, following the same naming rule.
func DuplicateEnvVarAt(list []EnvVar, i int) []EnvVar {
	if i < 0 || i >= len(list) {
		return list
	}
	dup := list[i].Clone()
	dup.Name = copyName(dup.Name)
	return InsertAfter(list, i, dup)
}
