package k8s

// DataEntry is one key/value pair of a ConfigMap or Secret. Secret values are
// held in clear text in the model; the serializer base64-encodes them.
type DataEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// DataEntries is an ordered, key-unique data set; insertion order is
// preserved through rendering.
type DataEntries []DataEntry

// Clone returns a copy that shares no storage with the receiver.
func (d DataEntries) Clone() DataEntries {
	if d == nil {
		return nil
	}
	out := make(DataEntries, len(d))
	copy(out, d)
	return out
}

// Get returns the value for key and whether the key is present.
func (d DataEntries) Get(key string) (string, bool) {
	for _, e := range d {
		if e.Key == key {
			return e.Value, true
		}
	}
	return "", false
}

// Keys returns the entry keys in insertion order.
func (d DataEntries) Keys() []string {
	keys := make([]string, len(d))
	for i, e := range d {
		keys[i] = e.Key
	}
	return keys
}

// ConfigMap models a v1 ConfigMap.
type ConfigMap struct {
	Metadata Meta        `json:"metadata"`
	Data     DataEntries `json:"data,omitempty"`
}

// NewConfigMap returns an empty ConfigMap.
func NewConfigMap() ConfigMap {
	return ConfigMap{}
}

// Clone returns a deep copy of the config map.
func (c ConfigMap) Clone() ConfigMap {
	c.Metadata = c.Metadata.Clone()
	c.Data = c.Data.Clone()
	return c
}

// SecretType tags a Secret with its Kubernetes type.
type SecretType string

const (
	SecretTypeOpaque           SecretType = "Opaque"
	SecretTypeDockerConfigJSON SecretType = "kubernetes.io/dockerconfigjson"
	SecretTypeBasicAuth        SecretType = "kubernetes.io/basic-auth"
	SecretTypeSSHAuth          SecretType = "kubernetes.io/ssh-auth"
	SecretTypeTLS              SecretType = "kubernetes.io/tls"
	SecretTypeServiceAccount   SecretType = "kubernetes.io/service-account-token"
)

// Secret models a v1 Secret. Data values are clear text here; rendering
// encodes them.
type Secret struct {
	Metadata Meta        `json:"metadata"`
	Type     SecretType  `json:"type,omitempty"`
	Data     DataEntries `json:"data,omitempty"`
}

// NewSecret returns an empty Opaque secret.
func NewSecret() Secret {
	return Secret{Type: SecretTypeOpaque}
}

// Clone returns a deep copy of the secret.
func (s Secret) Clone() Secret {
	s.Metadata = s.Metadata.Clone()
	s.Data = s.Data.Clone()
	return s
}

// ObjectRef names another object by name only (ServiceAccount secrets and
// imagePullSecrets references).
type ObjectRef struct {
	Name string `json:"name"`
}

// ServiceAccount models a v1 ServiceAccount. Automount is tri-state: nil
// omits the field from the manifest.
type ServiceAccount struct {
	Metadata         Meta        `json:"metadata"`
	Secrets          []ObjectRef `json:"secrets,omitempty"`
	ImagePullSecrets []ObjectRef `json:"imagePullSecrets,omitempty"`
	Automount        *bool       `json:"automountServiceAccountToken,omitempty"`
}

// NewServiceAccount returns an empty ServiceAccount.
func NewServiceAccount() ServiceAccount {
	return ServiceAccount{}
}

// Clone returns a deep copy of the service account.
func (s ServiceAccount) Clone() ServiceAccount {
	s.Metadata = s.Metadata.Clone()
	if s.Secrets != nil {
		secrets := make([]ObjectRef, len(s.Secrets))
		copy(secrets, s.Secrets)
		s.Secrets = secrets
	}
	if s.ImagePullSecrets != nil {
		pulls := make([]ObjectRef, len(s.ImagePullSecrets))
		copy(pulls, s.ImagePullSecrets)
		s.ImagePullSecrets = pulls
	}
	if s.Automount != nil {
		v := *s.Automount
		s.Automount = &v
	}
	return s
}

// Namespace models a v1 Namespace. Cluster scoped: it has no namespace of
// its own.
type Namespace struct {
	Name   string `json:"name"`
	Labels Labels `json:"labels,omitempty"`
}

// Clone returns a deep copy of the namespace.
func (n Namespace) Clone() Namespace {
	n.Labels = n.Labels.Clone()
	return n
}
