// Package api handles incoming HTTP requests, request validation and
// response formatting for the enlearn JSON API. It adapts HTTP to the
// vocabulary, review and translate services.
package api
