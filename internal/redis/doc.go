// Package redis implements the Redis-backed snapshot store.
//
// Each roast run writes the raw listening data it fetched; the latest
// snapshot per user supersedes the previous one.
package redis
