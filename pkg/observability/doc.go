/*
Package observability provides lifecycle hooks for monitoring the autoflow engine.

Metrics exports Prometheus counters and histograms for runs, dispatches, failures and
loop iterations. LoggingHooks mirrors the same events into a structured logger.
Both are plain domain.LifecycleHooks and can be merged with any other hooks.
*/
package observability
