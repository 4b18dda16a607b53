// Package fileutil writes output files atomically.
package fileutil
