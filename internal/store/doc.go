// Package store defines the persistence contract for the vocabulary
// collection. The collection is always loaded and saved wholesale; backends
// decode raw records, heal missing fields through the domain normalizer and
// write the repair back before returning.
package store
