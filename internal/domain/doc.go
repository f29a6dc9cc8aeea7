// Package domain contains the vocabulary entry model and the schema-on-read
// reconciliation that turns loosely-typed persisted records into entries.
// It is independent of any storage engine or delivery mechanism.
package domain
