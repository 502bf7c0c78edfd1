package k8s

// RestartPolicy is the pod restart policy of a Job or CronJob template.
// Always is not offered: finite workloads restart Never or OnFailure.
type RestartPolicy string

const (
	RestartNever     RestartPolicy = "Never"
	RestartOnFailure RestartPolicy = "OnFailure"
)

// ConcurrencyPolicy controls how a CronJob treats overlapping runs.
type ConcurrencyPolicy string

const (
	ConcurrencyAllow   ConcurrencyPolicy = "Allow"
	ConcurrencyForbid  ConcurrencyPolicy = "Forbid"
	ConcurrencyReplace ConcurrencyPolicy = "Replace"
)

// Job models a batch/v1 Job. Numeric spec fields are kept as the raw form
// text (free input; validators report malformed values instead of the type
// system rejecting them).
type Job struct {
	Metadata      Meta          `json:"metadata"`
	Containers    []Container   `json:"containers"`
	RestartPolicy RestartPolicy `json:"restartPolicy,omitempty"`
	Parallelism   string        `json:"parallelism,omitempty"`
	Completions   string        `json:"completions,omitempty"`
	BackoffLimit  string        `json:"backoffLimit,omitempty"`
}

// NewJob returns a Job with the defaults a new form starts from: one empty
// container, restart Never, parallelism 1, completions 1, backoff limit 6.
func NewJob() Job {
	return Job{
		Containers:    []Container{NewContainer()},
		RestartPolicy: RestartNever,
		Parallelism:   "1",
		Completions:   "1",
		BackoffLimit:  "6",
	}
}

// Clone returns a deep copy of the job.
func (j Job) Clone() Job {
	j.Metadata = j.Metadata.Clone()
	if j.Containers != nil {
		containers := make([]Container, len(j.Containers))
		for i, c := range j.Containers {
			containers[i] = c.Clone()
		}
		j.Containers = containers
	}
	return j
}

// CronJob models a batch/v1 CronJob: a Job spec under jobTemplate plus the
// schedule fields. StartingDeadlineSeconds and the history limits are raw
// form text; blanks render the documented defaults (60, 3, 1).
type CronJob struct {
	Metadata                   Meta              `json:"metadata"`
	Schedule                   string            `json:"schedule"`
	ConcurrencyPolicy          ConcurrencyPolicy `json:"concurrencyPolicy,omitempty"`
	StartingDeadlineSeconds    string            `json:"startingDeadlineSeconds,omitempty"`
	SuccessfulJobsHistoryLimit string            `json:"successfulJobsHistoryLimit,omitempty"`
	FailedJobsHistoryLimit     string            `json:"failedJobsHistoryLimit,omitempty"`
	Containers                 []Container       `json:"containers"`
	RestartPolicy              RestartPolicy     `json:"restartPolicy,omitempty"`
	Parallelism                string            `json:"parallelism,omitempty"`
	Completions                string            `json:"completions,omitempty"`
	BackoffLimit               string            `json:"backoffLimit,omitempty"`
}

// NewCronJob returns a CronJob with the Job defaults plus concurrency Allow
// and the 3/1 history limits.
func NewCronJob() CronJob {
	return CronJob{
		ConcurrencyPolicy:          ConcurrencyAllow,
		SuccessfulJobsHistoryLimit: "3",
		FailedJobsHistoryLimit:     "1",
		Containers:                 []Container{NewContainer()},
		RestartPolicy:              RestartNever,
		Parallelism:                "1",
		Completions:                "1",
		BackoffLimit:               "6",
	}
}

// Clone returns a deep copy of the cron job.
func (c CronJob) Clone() CronJob {
	c.Metadata = c.Metadata.Clone()
	if c.Containers != nil {
		containers := make([]Container, len(c.Containers))
		for i, con := range c.Containers {
			containers[i] = con.Clone()
		}
		c.Containers = containers
	}
	return c
}

// JobSpec returns the embedded Job view of the cron job, used wherever the
// two share validation or rendering of the pod template.
func (c CronJob) JobSpec() Job {
	return Job{
		Metadata:      c.Metadata,
		Containers:    c.Containers,
		RestartPolicy: c.RestartPolicy,
		Parallelism:   c.Parallelism,
		Completions:   c.Completions,
		BackoffLimit:  c.BackoffLimit,
	}
}
