// Package process provides a screen capturer backed by an external command.
package process
