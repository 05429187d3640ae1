// Package orchestration runs the sampling pipeline: it reads OS counters,
// turns them into utilisation percentages, feeds the warning latches and
// routes the results to presentation and notification sinks. It also owns
// the user-facing settings actions (threshold and autostart changes) so that
// timer ticks and menu actions mutate shared state through one engine.
package orchestration
