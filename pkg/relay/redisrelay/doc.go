// Package redisrelay is a notification relay over Redis pub/sub.
//
// Publishers resolve recipients and publish an Envelope on each recipient's
// "user:<id>" channel. Every server process holds a single pattern
// subscription (Forward) that decodes those envelopes and rebroadcasts each
// notification once on the process-local bus, where stream sessions apply
// their own audience filter. Open sessions therefore cost no Redis
// connections, and several processes share one audience without a hosted
// push service.
//
// The package also owns the Redis connection helpers (Connect, Healthcheck).
package redisrelay
