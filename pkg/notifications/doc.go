// Package notifications records domain events as notifications and fans them
// out to live recipients.
//
// Publisher is the entry point for domain code. It persists the record
// through a NotificationStore first and then hands it to a Deliverer:
// BusDeliverer for the in-process bus, or RelayDeliverer when an external
// relay is configured. Delivery failures are logged and absorbed, since the
// record stays available to polling.
//
// Recipients are described by role (ADMIN, TECH, CUSTOMER) rather than by
// user. Filter captures the audience rules shared by every read path:
//
//   - role equality
//   - admins never see events they triggered themselves
//   - customers only see their own customer's events
//   - only event types the user has not disabled
//
// LiveSubscriber applies them in memory to bus deliveries using a preference
// snapshot taken at connect time; Inbox turns them into store queries with
// preferences resolved on each call.
//
// PreferenceResolver implements default-allow preferences over the fixed
// per-role vocabulary returned by Vocabulary.
//
// MemoryStorage and MemoryDirectory are in-memory implementations for
// development and tests; package pgstore provides the Postgres ones.
package notifications
