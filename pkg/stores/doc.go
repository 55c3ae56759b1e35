// Package stores provides the durable persistence layer for farmplan's
// job orchestrator. It includes a SQLite-backed implementation of
// jobs.TableStore with WAL mode and connection pooling, a filesystem
// BlobStore for request/result payloads, and an in-memory Queue for
// job-id notifications that does not redeliver unacknowledged messages.
package stores
