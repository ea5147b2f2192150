// faro is the batch analysis CLI: analyze (cause simplification), kpis,
// advisors, sample (fixture generation) and runs (persisted run listing).
//
// Usage:
//
//	faro analyze --tickets=<csv> [--config=<yaml>] [--db=<sqlite>] [-o <json>]
//	faro kpis --tickets=<csv> [--calls=<csv>] [--surveys=<csv>]
//	faro advisors --tickets=<csv> [--config=<yaml>]
//	faro sample --out=<dir> [--tickets=2000] [--days=30] [--seed=42]
//	faro runs --db=<sqlite> [--limit=20] [--show=<id>]
package main

func main() {
	execute()
}
