// Package srs implements the spaced-repetition schedule: which entries are
// due, how the vocabulary book is ordered, and how an entry's interval moves
// after a review. Success doubles the interval up to a cap and builds a
// streak; failure resets both.
package srs
