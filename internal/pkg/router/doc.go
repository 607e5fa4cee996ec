// Package router adapts httprouter to handlers that return (payload, error)
// and renders both as the JSON envelope used by the HTTP API.
//
// Every endpoint runs behind the same chain: panic recovery, client IP
// resolution, correlation id, tracing plus request logging, and the
// maintenance switch.
package router
