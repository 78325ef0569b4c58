/*
Package observability provides tools for monitoring the femtree workspace.

Metrics registers Prometheus collectors and exposes them as
domain.LifecycleHooks, so any workspace.Manager can be instrumented without
knowing about Prometheus. Hooks combines several hook sets, for example
metrics plus structured logging.
*/
package observability
