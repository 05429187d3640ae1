// Package logging provides the structured logging interface used by every
// usage warner component. Records are JSON lines written through zerolog and
// tagged with the emitting component; the scheduler's cron runtime logs
// through the same sink via CronLogger.
package logging
