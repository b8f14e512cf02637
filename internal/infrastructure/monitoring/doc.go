/*
Package monitoring provides metrics collection for the task registry.

# Overview

This package implements Prometheus-based metrics for the registry resolver:
cache behavior, resolution latency and failures, and cross-validation
outcomes.

# Features

- Cache hits and misses per category
- Resolution duration per category
- Resolution errors by category and error kind
- Number of cached entities per category
- Constraint violations by kind (metric, report, framework)

# Usage

	// Create metrics on a registerer
	metrics := monitoring.NewRegistryMetrics(prometheus.DefaultRegisterer)

	// Hand them to the registry
	manager := registry.NewManager(root, mode, registry.WithMetrics(metrics))

A nil *RegistryMetrics is valid and records nothing.

# Metrics Endpoint

The registry itself serves no endpoint. Embedding services expose the
registerer they passed in, e.g. with promhttp.HandlerFor.
*/
package monitoring
