// Package events provides the in-process hook between the task
// subsystem's mutation path and the notification engine. The task
// subsystem emits an event after an assignment write commits; the
// engine's registered handler dispatches the assignment notification.
// Handler failures are reported back to the emitter's caller for
// logging but must never roll back the mutation that triggered them.
package events
