// Package paths provides the on-disk layout of a registry tree.
//
// # Directory Structure
//
//	<root>/
//	  ├── packages/      <name>.yaml, <name>.dev.yaml
//	  ├── tasks/
//	  ├── datasets/
//	  ├── metrics/
//	  ├── reports/
//	  ├── runs/
//	  └── experiments/
//
// Base files (<name>.yaml) are mandatory for an entity to exist. Overlay files
// (<name>.dev.yaml) are optional and only read in development mode.
package paths
