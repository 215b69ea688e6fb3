// Package cache keeps rendered audio on disk so replaying a track skips
// synthesis of its PCM.
package cache
