// Package sqlite stores the vocabulary collection in a SQLite database.
//
// Each entry is kept as one row holding its JSON record, so legacy or
// partial records are repaired on load exactly like the JSON file backend.
// The collection is still replaced wholesale inside a single transaction.
package sqlite
