package validate

import (
	"regexp"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"manifest-kit/pkg/k8s"
)

const (
	msgScheduleRequired = "schedule is required"
	msgSchedule         = `must be a standard 5-field cron expression (minute hour day-of-month month day-of-week), e.g. "*/5 * * * *"`
)

// cronField matches one field of a standard cron expression. Descriptors
// like @hourly are deliberately rejected.
var cronField = regexp.MustCompile(`^[0-9*,/-]+$`)

// Job validates a Job configuration.
func Job(j k8s.Job, ctx Context) Errors {
	errs := Errors{}
	checkMeta(errs, j.Metadata, false)
	checkContainers(errs, j.Containers, j.Metadata.Namespace, ctx.References)
	checkJobSpec(errs, j)
	return errs
}

// CronJob validates a CronJob configuration, including the schedule
// expression and the embedded job template fields.
func CronJob(c k8s.CronJob, ctx Context) Errors {
	errs := Errors{}
	checkMeta(errs, c.Metadata, false)
	checkContainers(errs, c.Containers, c.Metadata.Namespace, ctx.References)
	checkJobSpec(errs, c.JobSpec())
	checkSchedule(errs, c.Schedule)

	switch c.ConcurrencyPolicy {
	case k8s.ConcurrencyAllow, k8s.ConcurrencyForbid, k8s.ConcurrencyReplace:
	default:
		errs["concurrencyPolicy"] = "must be Allow, Forbid or Replace"
	}
	checkInt(errs, "startingDeadlineSeconds", c.StartingDeadlineSeconds, 1, "must be a positive integer (seconds)")
	checkInt(errs, "successfulJobsHistoryLimit", c.SuccessfulJobsHistoryLimit, 0, "must be a non-negative integer")
	checkInt(errs, "failedJobsHistoryLimit", c.FailedJobsHistoryLimit, 0, "must be a non-negative integer")
	return errs
}

func checkJobSpec(errs Errors, j k8s.Job) {
	switch j.RestartPolicy {
	case k8s.RestartNever, k8s.RestartOnFailure:
	default:
		errs["restartPolicy"] = "must be Never or OnFailure"
	}
	checkInt(errs, "parallelism", j.Parallelism, 0, "must be a non-negative integer")
	checkInt(errs, "completions", j.Completions, 1, "must be a positive integer")
	checkInt(errs, "backoffLimit", j.BackoffLimit, 0, "must be a non-negative integer")
}

// checkSchedule runs the shape check (five fields, digits and * , / -
// only) before handing the expression to the cron parser for the semantic
// check, so "61 * * * *" is rejected even though it is well-formed.
func checkSchedule(errs Errors, schedule string) {
	if schedule == "" {
		errs["schedule"] = msgScheduleRequired
		return
	}
	fields := strings.Fields(schedule)
	if len(fields) != 5 {
		errs["schedule"] = msgSchedule
		return
	}
	for _, f := range fields {
		if !cronField.MatchString(f) {
			errs["schedule"] = msgSchedule
			return
		}
	}
	if _, err := cron.ParseStandard(schedule); err != nil {
		errs["schedule"] = msgSchedule
	}
}

// NextRuns returns the next n activation times of a cron schedule after
// from. It backs the schedule preview and returns ok=false when the
// expression does not pass the same checks CronJob validation applies.
func NextRuns(schedule string, from time.Time, n int) ([]time.Time, bool) {
	probe := Errors{}
	checkSchedule(probe, schedule)
	if !probe.OK() {
		return nil, false
	}
	sched, err := cron.ParseStandard(schedule)
	if err != nil {
		return nil, false
	}
	runs := make([]time.Time, 0, n)
	at := from
	for i := 0; i < n; i++ {
		at = sched.Next(at)
		runs = append(runs, at)
	}
	return runs, true
}
