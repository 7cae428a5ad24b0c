// Package handlers provides HTTP request handlers for the image renamer API.
//
// It includes handlers for:
//   - Directory listing and image serving
//   - Thumbnail serving, batch warming, and cache clearing
//   - Tag catalog management
//   - Rename preview and batch apply
//   - Health checks, version, and metrics
package handlers
