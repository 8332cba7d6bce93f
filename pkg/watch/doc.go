// Package watch re-runs a report when its inputs change.
//
// A FileWatcher reports debounced changes of the event log and of the
// configuration file; a Scheduler triggers runs on a cron schedule. Both feed
// a Runner, which serializes runs so that at most one is in progress.
//
// Service wires the three together:
//
//	svc := watch.NewService(watch.Config{
//	    LogPath:  "session.json",
//	    Debounce: 250 * time.Millisecond,
//	    Schedule: "*/5 * * * *",
//	}, runFunc, logger)
//	err := svc.Run(ctx) // blocks until ctx is cancelled
package watch
