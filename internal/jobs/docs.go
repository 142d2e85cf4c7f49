// Package jobs provides scheduled background tasks for the fulfillment
// system, implemented as cron-based jobs using github.com/robfig/cron/v3.
//
// # Available Jobs
//
// ImportWorkerJob runs the queue worker tick every 30 seconds. A tick sweeps
// Processing jobs whose claim went stale, claims the oldest runnable job and
// processes it within the tick budget, pausing with a resume cursor when the
// budget runs out.
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(processQueuedJobHandler, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Error Handling
//
// The worker tick treats an empty queue as idle and stays quiet; every other
// tick error is logged. Per-row import errors never surface here, they end
// up in the job's error report artifact.
package jobs
