package manifest

import "manifest-kit/pkg/k8s"

// Job renders a Job manifest. Blank parallelism, completions and
// backoffLimit are omitted so the cluster defaults apply.
func Job(j k8s.Job) string {
	d := &doc{}
	writeHeader(d, apiBatch, k8s.KindJob, j.Metadata)
	d.line(0, "spec:")
	writeJobSpec(d, 1, j)
	return d.String()
}

func writeJobSpec(d *doc, indent int, j k8s.Job) {
	if j.Parallelism != "" {
		d.linef(indent, "parallelism: %s", j.Parallelism)
	}
	if j.Completions != "" {
		d.linef(indent, "completions: %s", j.Completions)
	}
	if j.BackoffLimit != "" {
		d.linef(indent, "backoffLimit: %s", j.BackoffLimit)
	}
	d.line(indent, "template:")
	d.line(indent+1, "spec:")
	writeContainers(d, indent+2, j.Containers)
	d.linef(indent+2, "restartPolicy: %s", scalar(j.RestartPolicy))
}

// CronJob renders a CronJob manifest. The schedule is always quoted so
// expressions starting with * stay valid YAML. Blank deadline and history
// fields render their documented defaults (60, 3, 1).
func CronJob(c k8s.CronJob) string {
	d := &doc{}
	writeHeader(d, apiBatch, k8s.KindCronJob, c.Metadata)
	d.line(0, "spec:")
	d.linef(1, "schedule: %q", c.Schedule)
	d.linef(1, "concurrencyPolicy: %s", scalar(c.ConcurrencyPolicy))
	d.linef(1, "startingDeadlineSeconds: %s", orDefault(c.StartingDeadlineSeconds, "60"))
	d.linef(1, "successfulJobsHistoryLimit: %s", orDefault(c.SuccessfulJobsHistoryLimit, "3"))
	d.linef(1, "failedJobsHistoryLimit: %s", orDefault(c.FailedJobsHistoryLimit, "1"))
	d.line(1, "jobTemplate:")
	d.line(2, "spec:")
	writeJobSpec(d, 3, c.JobSpec())
	return d.String()
}
