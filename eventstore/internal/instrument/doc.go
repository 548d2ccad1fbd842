// Package instrument carries the logging, metrics and tracing plumbing shared by the engines.
package instrument
