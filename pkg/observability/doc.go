/*
Package observability turns sequencer lifecycle hooks into logs and metrics.

Metrics are Prometheus counters registered on a caller-supplied registry;
Logging emits one slog record per event. Chain combines several hook sets so
both can be installed on the same Guide.
*/
package observability
