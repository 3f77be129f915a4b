// Package domain defines the core entities of the notification engine:
// tasks and their due-date urgency, users, assignee references, and
// notification records. Types here carry no I/O; persistence and delivery
// live in the store and service layers.
package domain
