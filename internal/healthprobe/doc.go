// Package healthprobe checks a live deployment for reachability, latency, and
// security response headers. Its results are reported alongside the readiness
// score and never change it.
package healthprobe
