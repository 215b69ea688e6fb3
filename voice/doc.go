// Package voice synthesizes voice-pitch tracks.
//
// A track is a series of 100ms ticks that alternates between talking
// segments, made of syllables whose samples are drawn from a Gaussian pitch
// distribution, and silent segments holding small background noise. The
// whole track is computed when the Synthesizer is created and never changes
// afterwards.
package voice
