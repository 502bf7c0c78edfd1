package k8s

// Label is a single metadata label. Keys follow the Kubernetes qualified-name
// form, optionally prefixed (`app.kubernetes.io/component`).
type Label struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Labels is an ordered, key-unique label set. Order is insertion order and is
// preserved through rendering; it carries no semantic meaning.
type Labels []Label

// Clone returns a copy that shares no storage with the receiver.
func (l Labels) Clone() Labels {
	if l == nil {
		return nil
	}
	out := make(Labels, len(l))
	copy(out, l)
	return out
}

// Get returns the value for key and whether the key is present.
func (l Labels) Get(key string) (string, bool) {
	for _, e := range l {
		if e.Key == key {
			return e.Value, true
		}
	}
	return "", false
}

// Set returns a new set with key bound to value: replaced in place when the
// key already exists, appended otherwise.
func (l Labels) Set(key, value string) Labels {
	out := l.Clone()
	for i, e := range out {
		if e.Key == key {
			out[i].Value = value
			return out
		}
	}
	return append(out, Label{Key: key, Value: value})
}

// Remove returns a new set without key. Removing an absent key is a no-op.
func (l Labels) Remove(key string) Labels {
	out := make(Labels, 0, len(l))
	for _, e := range l {
		if e.Key != key {
			out = append(out, e)
		}
	}
	return out
}
