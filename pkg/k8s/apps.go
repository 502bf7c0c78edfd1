package k8s

// ServiceType is the service exposure mode of an app deployment.
type ServiceType string

const (
	ServiceClusterIP    ServiceType = "ClusterIP"
	ServiceNodePort     ServiceType = "NodePort"
	ServiceLoadBalancer ServiceType = "LoadBalancer"
)

// Ingress holds the optional ingress settings of a Deployment. When Enabled,
// the deployment implies an Ingress resource routing Host+Path to the implied
// Service.
type Ingress struct {
	Enabled bool   `json:"enabled,omitempty"`
	Host    string `json:"host,omitempty"`
	Path    string `json:"path,omitempty"`
}

// Deployment models the simple app form: one image exposed on one port. A
// deployment with a non-empty app name implies a Service selecting
// app=<AppName>, and an Ingress when enabled. AppName doubles as the
// metadata name of all three resources.
type Deployment struct {
	AppName     string               `json:"appName"`
	Namespace   string               `json:"namespace"`
	Labels      Labels               `json:"labels,omitempty"`
	Image       string               `json:"image"`
	Replicas    string               `json:"replicas,omitempty"`
	Port        string               `json:"port,omitempty"`
	ServiceType ServiceType          `json:"serviceType,omitempty"`
	Env         []EnvVar             `json:"env,omitempty"`
	Resources   ResourceRequirements `json:"resources,omitempty"`
	Ingress     Ingress              `json:"ingress,omitempty"`
}

// NewDeployment returns a Deployment with one replica and a ClusterIP
// service.
func NewDeployment() Deployment {
	return Deployment{
		Replicas:    "1",
		ServiceType: ServiceClusterIP,
	}
}

// Clone returns a deep copy of the deployment.
func (d Deployment) Clone() Deployment {
	d.Labels = d.Labels.Clone()
	if d.Env != nil {
		env := make([]EnvVar, len(d.Env))
		for i, e := range d.Env {
			env[i] = e.Clone()
		}
		d.Env = env
	}
	return d
}

// DaemonSet models the node-agent form: one image on every node, optionally
// exposed through a headless Service when ServiceEnabled is set.
type DaemonSet struct {
	Name           string               `json:"name"`
	Namespace      string               `json:"namespace"`
	Labels         Labels               `json:"labels,omitempty"`
	Image          string               `json:"image"`
	Port           string               `json:"port,omitempty"`
	Resources      ResourceRequirements `json:"resources,omitempty"`
	ServiceEnabled bool                 `json:"serviceEnabled,omitempty"`
}

// NewDaemonSet returns an empty DaemonSet.
func NewDaemonSet() DaemonSet {
	return DaemonSet{}
}

// Clone returns a deep copy of the daemon set.
func (d DaemonSet) Clone() DaemonSet {
	d.Labels = d.Labels.Clone()
	return d
}
