package manifest

import "manifest-kit/pkg/k8s"

// appLabels builds the rendered label set for app-anchored kinds: the app
// label first, then the user's labels minus any app override.
func appLabels(app string, extra k8s.Labels) k8s.Labels {
	labels := k8s.Labels{{Key: "app", Value: app}}
	for _, l := range extra {
		if l.Key != "app" {
			labels = append(labels, l)
		}
	}
	return labels
}

// Deployment renders a Deployment and its implied documents: a Service
// when the app name anchors selectors, plus an Ingress when enabled. Blank
// replicas render as 1.
func Deployment(dep k8s.Deployment) string {
	docs := []string{deploymentDoc(dep)}
	if dep.AppName != "" {
		docs = append(docs, serviceDoc(
			dep.AppName, dep.Namespace, dep.Labels,
			dep.ServiceType, "80", orDefault(dep.Port, "80"),
		))
		if dep.Ingress.Enabled {
			docs = append(docs, ingressDoc(dep))
		}
	}
	return joinDocs(docs)
}

func deploymentDoc(dep k8s.Deployment) string {
	d := &doc{}
	meta := k8s.Meta{Name: dep.AppName, Namespace: dep.Namespace, Labels: appLabels(dep.AppName, dep.Labels)}
	writeHeader(d, apiApps, k8s.KindDeployment, meta)
	d.line(0, "spec:")
	d.linef(1, "replicas: %s", orDefault(dep.Replicas, "1"))
	d.line(1, "selector:")
	d.line(2, "matchLabels:")
	d.linef(3, "app: %s", scalar(dep.AppName))
	d.line(1, "template:")
	d.line(2, "metadata:")
	d.line(3, "labels:")
	d.linef(4, "app: %s", scalar(dep.AppName))
	d.line(2, "spec:")
	d.line(3, "containers:")
	d.linef(4, "- name: %s", scalar(dep.AppName))
	d.linef(5, "image: %s", scalar(dep.Image))
	if dep.Port != "" {
		d.line(5, "ports:")
		d.linef(6, "- containerPort: %s", dep.Port)
	}
	writeEnv(d, 5, dep.Env)
	writeResources(d, 5, dep.Resources)
	return d.String()
}

func serviceDoc(app, namespace string, labels k8s.Labels, svcType k8s.ServiceType, port, targetPort string) string {
	d := &doc{}
	meta := k8s.Meta{Name: app, Namespace: namespace, Labels: appLabels(app, labels)}
	writeHeader(d, apiCore, k8s.KindService, meta)
	d.line(0, "spec:")
	d.linef(1, "type: %s", scalar(svcType))
	d.line(1, "selector:")
	d.linef(2, "app: %s", scalar(app))
	d.line(1, "ports:")
	d.linef(2, "- port: %s", scalar(port))
	d.linef(3, "targetPort: %s", scalar(targetPort))
	return d.String()
}

func ingressDoc(dep k8s.Deployment) string {
	d := &doc{}
	meta := k8s.Meta{Name: dep.AppName, Namespace: dep.Namespace, Labels: appLabels(dep.AppName, dep.Labels)}
	writeHeader(d, apiNetworking, k8s.KindIngress, meta)
	d.line(0, "spec:")
	d.line(1, "rules:")
	d.linef(2, "- host: %s", scalar(dep.Ingress.Host))
	d.line(3, "http:")
	d.line(4, "paths:")
	d.linef(5, "- path: %s", orDefault(dep.Ingress.Path, "/"))
	d.line(6, "pathType: Prefix")
	d.line(6, "backend:")
	d.line(7, "service:")
	d.linef(8, "name: %s", scalar(dep.AppName))
	d.line(8, "port:")
	d.line(9, "number: 80")
	return d.String()
}

// DaemonSet renders a DaemonSet and, when its service is enabled, a
// ClusterIP Service exposing the container port.
func DaemonSet(ds k8s.DaemonSet) string {
	docs := []string{daemonSetDoc(ds)}
	if ds.ServiceEnabled && ds.Name != "" {
		docs = append(docs, serviceDoc(
			ds.Name, ds.Namespace, ds.Labels,
			k8s.ServiceClusterIP, ds.Port, ds.Port,
		))
	}
	return joinDocs(docs)
}

func daemonSetDoc(ds k8s.DaemonSet) string {
	d := &doc{}
	meta := k8s.Meta{Name: ds.Name, Namespace: ds.Namespace, Labels: appLabels(ds.Name, ds.Labels)}
	writeHeader(d, apiApps, k8s.KindDaemonSet, meta)
	d.line(0, "spec:")
	d.line(1, "selector:")
	d.line(2, "matchLabels:")
	d.linef(3, "app: %s", scalar(ds.Name))
	d.line(1, "template:")
	d.line(2, "metadata:")
	d.line(3, "labels:")
	d.linef(4, "app: %s", scalar(ds.Name))
	d.line(2, "spec:")
	d.line(3, "containers:")
	d.linef(4, "- name: %s", scalar(ds.Name))
	d.linef(5, "image: %s", scalar(ds.Image))
	if ds.Port != "" {
		d.line(5, "ports:")
		d.linef(6, "- containerPort: %s", ds.Port)
	}
	writeResources(d, 5, ds.Resources)
	return d.String()
}
