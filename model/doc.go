// SPDX-License-Identifier: EPL-2.0

// Package model holds the value types shared by the player core: songs and
// their playback state, volume, equalizer filters and presets, playlists and
// the closed error taxonomy reported to the user interface.
//
// Every type in this package is a plain value. Mutation happens only through
// the setters that enforce the invariants (volume range, gain clamping), so a
// value received through an event can be used without further validation.
package model
