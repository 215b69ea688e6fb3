// Package audio sonifies pitch tracks. Tracks are rendered to 16-bit mono
// PCM, one tone or hiss burst per tick. Playback goes through a Device;
// package device provides one backed by the system audio device.
package audio
