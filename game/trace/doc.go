// Package trace records episodes as zstd-compressed JSON lines, one
// observation/reward/done/info transition per line, for offline training
// of learning agents.
package trace
