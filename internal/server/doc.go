// Package server provides the sidecar HTTP endpoints of the long-running
// process: health probes and the Prometheus metrics listener.
package server
