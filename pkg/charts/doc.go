// Package charts builds the numbers behind the cost charts: per-event token
// and cost stacks, token and cost distribution shares, and event cost by
// subtype. Rendering is left to whatever consumes the JSON dataset.
//
// The per-event series are read from the accumulated usage of the raw events
// and do not depend on cost rows. Only the by-subtype distribution is derived
// from processor rows.
package charts
