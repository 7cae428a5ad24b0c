// Package logging provides a leveled, printf-style logging facade over the
// standard library logger. The level is resolved once from the DEBUG and
// LOG_LEVEL environment variables and defaults to info.
package logging
