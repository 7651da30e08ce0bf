// Package events provides the learning event types and an in-process emitter.
//
// Services emit events after a change is persisted; handlers such as cache
// invalidation and audit logging subscribe without the services knowing
// about them.
package events
