// Package device plays PCM rendered by package audio on the system audio
// device using oto/v3. Builds without cgo get a Player that reports audio
// as unavailable.
package device
