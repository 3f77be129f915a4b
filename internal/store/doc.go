// Package store defines the persistence interfaces the notification
// engine depends on: the task and user read models and the notification
// ledger. Implementations live under internal/platform.
//
// The task and user models are owned by the task-management subsystem;
// the engine only reads them. The ledger is the engine's single piece of
// durable state and its single concurrency-control point: TryReserve
// must be atomic so that concurrent attempts on the same key resolve
// first-writer-wins.
package store
