// Package dryrun defines the report returned by mutating wrapper methods
// when a simulation is requested instead of a real API call.
//
// The convention, shared by every service wrapper: mutating methods accept
// call options; when the dry-run option is set, the method performs no
// mutating API call and returns a *dryrun.Report describing the resource,
// the proposed change and the reason, in place of the domain result. Reads
// needed to describe the change (such as fetching the current state of a
// resource) are still allowed.
package dryrun
