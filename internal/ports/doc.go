// Package ports defines interfaces between layers in the hexagonal
// architecture. RecordService is implemented by the application layer and
// called by HTTP handlers; SlotStore is implemented by the storage adapters
// (memory, sqlite, postgres) and called by the application layer. The health
// ports connect storage backends to the readiness endpoint.
package ports
