package validate

import (
	"strings"

	"k8s.io/apimachinery/pkg/util/validation"

	"manifest-kit/pkg/k8s"
)

// Deployment validates a Deployment configuration together with its implied
// Service and optional Ingress.
func Deployment(d k8s.Deployment, ctx Context) Errors {
	errs := Errors{}
	checkName(errs, "appName", d.AppName)
	if d.Namespace == "" {
		errs["namespace"] = msgNamespaceRequired
	}
	checkLabels(errs, d.Labels)

	if d.Image == "" {
		errs["image"] = "image is required"
	}
	checkInt(errs, "replicas", d.Replicas, 0, "must be a non-negative integer")
	checkPort(errs, "port", d.Port)
	switch d.ServiceType {
	case k8s.ServiceClusterIP, k8s.ServiceNodePort, k8s.ServiceLoadBalancer:
	default:
		errs["serviceType"] = "must be ClusterIP, NodePort or LoadBalancer"
	}

	checkEnv(errs, "env", d.Env, d.Namespace, ctx.References)
	checkQuantity(errs, "requests-cpu", d.Resources.Requests.CPU)
	checkQuantity(errs, "requests-memory", d.Resources.Requests.Memory)
	checkQuantity(errs, "limits-cpu", d.Resources.Limits.CPU)
	checkQuantity(errs, "limits-memory", d.Resources.Limits.Memory)

	if d.Ingress.Enabled {
		switch {
		case d.Ingress.Host == "":
			errs["ingress.host"] = "host is required when ingress is enabled"
		case len(validation.IsDNS1123Subdomain(d.Ingress.Host)) > 0:
			errs["ingress.host"] = "must be a DNS-1123 subdomain, e.g. app.example.com"
		}
		if d.Ingress.Path == "" {
			errs["ingress.path"] = "path is required when ingress is enabled"
		} else if !strings.HasPrefix(d.Ingress.Path, "/") {
			errs["ingress.path"] = "path must be absolute"
		}
	}
	return errs
}

// DaemonSet validates a DaemonSet configuration.
func DaemonSet(d k8s.DaemonSet, ctx Context) Errors {
	errs := Errors{}
	checkName(errs, "name", d.Name)
	if d.Namespace == "" {
		errs["namespace"] = msgNamespaceRequired
	}
	checkLabels(errs, d.Labels)

	if d.Image == "" {
		errs["image"] = "image is required"
	}
	if d.ServiceEnabled && d.Port == "" {
		errs["port"] = "port is required when the service is enabled"
	} else {
		checkPort(errs, "port", d.Port)
	}
	checkQuantity(errs, "requests-cpu", d.Resources.Requests.CPU)
	checkQuantity(errs, "requests-memory", d.Resources.Requests.Memory)
	checkQuantity(errs, "limits-cpu", d.Resources.Limits.CPU)
	checkQuantity(errs, "limits-memory", d.Resources.Limits.Memory)
	return errs
}
