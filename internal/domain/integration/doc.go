// Package integration contains the store synchronization bounded context.
// It mirrors a remote WooCommerce store into the local catalog, partner and
// trade contexts.
//
// Key concepts:
//   - SyncDomain: an independently checkpointed sync stream (PRODUCT, CUSTOMER, ORDER)
//   - SyncCheckpoint: durable per-domain progress enabling resumable, incremental runs
//   - RemoteCatalog: port for reading pages of remote records
//   - UnitOfWork: port running one record's reconciliation in its own transaction
//
// Design Pattern: Ports & Adapters
//   - Ports (interfaces) are defined here in the domain layer
//   - Adapters (implementations) are in the infrastructure layer
package integration
