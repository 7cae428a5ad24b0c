// Package middleware provides HTTP middleware for the image renamer service.
//
// It includes:
//   - Request logging in W3C Extended Log Format
//   - Prometheus request metrics with bounded label cardinality
//   - Configurable filtering for static files and health checks
package middleware
