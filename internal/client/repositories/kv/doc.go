// Package kv is the client's durable key-value store. It persists the
// session token and identity and, when favorites are kept locally, the whole
// favorites list as one JSON blob.
//
// Get returns (nil, nil) for an absent key, Set overwrites, and Delete of an
// absent key succeeds. Backends: SQLite (default), an S3 bucket, a sealed
// wrapper that encrypts values, and an in-memory map.
package kv
