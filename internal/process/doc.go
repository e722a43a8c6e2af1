// Package process terminates the browser process trees started for card
// rendering.
package process
