// Package results keeps a SQLite ledger of finished episodes.
//
// A Store satisfies service.EpisodeRecorder, so the game service records
// every episode it finishes. The simulate and analyze commands read it
// back as per-strategy summaries.
package results
