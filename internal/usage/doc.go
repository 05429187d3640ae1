// Package usage turns raw OS counters into utilisation percentages.
//
// CPU utilisation is derived from two successive per-core time snapshots:
// the share of elapsed core time that was not spent idle. Memory utilisation
// is the used share of total physical memory. Both results are whole
// percentages in [0, 100].
package usage
