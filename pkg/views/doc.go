// Package views implements the single-purpose event views: every event with
// its own tool-call cost, completion cost, input (cache creation) cost, and
// the most expensive events by accumulated usage.
//
// Views read raw events and do not correlate usage records; the cost rows of
// pkg/processor are the canonical report.
package views
