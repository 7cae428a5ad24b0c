// Package startup handles application initialization: environment-driven
// configuration, directory setup with write probes, build information, and
// the structured startup/shutdown log banners.
package startup
