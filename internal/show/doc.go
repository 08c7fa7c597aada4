// Package show turns a script into a chain of stages.
package show
