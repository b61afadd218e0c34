package jobs

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
)

// MirrorProbeJobID identifies the periodic mirror re-probe job.
const MirrorProbeJobID = "mirror-probe"

// StartJobs starts the background job scheduler.
func StartJobs(app JobContext) {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()

	startMirrorProbeJob(s, app)

	logrus.Info("Starting background job scheduler...")
	s.StartAsync()
}

// RegisterJobs registers the built-in jobs with the manager.
func RegisterJobs(jm *JobManager) {
	jm.Register(MirrorProbeJobID, "Mirror re-probe", runMirrorProbe)
}

func startMirrorProbeJob(s *gocron.Scheduler, app JobContext) {
	interval := app.Config().ProbeInterval
	if interval == 0 {
		logrus.Info("Mirror probe interval is 0, scheduled probing is disabled.")
		return
	}

	logrus.Infof("Scheduling job: '%s' to run every %d minutes.", MirrorProbeJobID, interval)

	_, err := s.Every(interval).Minutes().Do(func() {
		logrus.Infof("Scheduler is triggering job: %s", MirrorProbeJobID)
		// Submit the job to the manager instead of running it directly.
		// This prevents conflicts with manually triggered jobs.
		err := app.JobManager().RunJob(MirrorProbeJobID, app)
		if err != nil {
			logrus.Errorf("Scheduled job '%s' could not start: %v", MirrorProbeJobID, err)
		}
	})
	if err != nil {
		logrus.Errorf("Error scheduling '%s' job: %v", MirrorProbeJobID, err)
	}
}

// runMirrorProbe drops every site's cached mirror and probes the
// candidate lists again, so a site whose primary mirror came back is
// promoted before the next user request pays for the discovery.
func runMirrorProbe(app JobContext) {
	for site, resolver := range app.Resolvers() {
		resolver.Invalidate()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		base, err := resolver.Get(ctx)
		cancel()
		if err != nil {
			logrus.Warnf("Mirror probe for %s found no working mirror: %v", site, err)
			continue
		}
		logrus.WithField("site", site).Debugf("Mirror probe resolved %s", base)
	}
}
