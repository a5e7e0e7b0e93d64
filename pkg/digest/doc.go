// Package digest queues route and schedule changes for technicians.
//
// Technicians are not live-notified. Each change becomes an Item keyed by the
// technician and the route date, normalized to midnight in the business time
// zone, and a separate batch process turns the queue into digests.
package digest
