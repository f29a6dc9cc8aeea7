// Package service provides application-level services for managing the
// vocabulary collection and running review sessions. Subpackages hold the
// services; this package holds the error type they share.
package service
