// Package service implements the notification engine: assignee
// resolution, dispatching through the delivery channel, the scheduled
// scan cycle, and the synchronous assignment notifier.
//
// The engine holds no clock. Every scan is a function of the current
// time supplied by the caller, which is what makes it testable without
// real timers.
package service
