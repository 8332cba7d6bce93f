// costlens derives cost and usage reports from AI-agent event logs.
//
// It reads a JSON array of action and observation events, correlates each
// caused event with the nearest language-model usage record and prices the
// tokens, producing:
//   - Per-event cost tables (text, JSON, CSV or a SQLite artifact)
//   - Summaries by event subtype
//   - Chart datasets of token and cost distributions
//   - The legacy all/completion/input/top views
//
// Usage:
//
//	# Cost table of a session log
//	costlens process session.json
//
//	# Most expensive events first, as CSV
//	costlens process session.json --sort total_cost --format csv -o costs.csv
//
//	# Summary by subtype
//	costlens summary session.json
//
//	# Re-run whenever the log changes
//	costlens watch session.json
//
//	# Check a configuration file
//	costlens validate --config costlens.yaml
package main

func main() {
	Execute()
}
