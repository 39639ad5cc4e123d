// Package ui implements cattery's terminal interface with Bubble Tea.
//
// # Views
//
//   - Panel: the request form beside the result of the last fetch in the
//     current mode (image, html or json). enter edits a field, r fetches,
//     m cycles the mode and s saves the current cat as a favourite.
//   - Favourites: the saved cats. enter loads one into the form and fetches
//     it, x removes it.
//   - Tags: the cataas tag vocabulary. enter appends a tag to the form.
//   - Log: the tail of the log file, refreshed while visible.
//
// # Data flow
//
// Fetches and favourite mutations run inside tea.Cmd functions, never in
// Update. The session trackers and the favourites store notify subscribers
// synchronously, and Run forwards those notifications with Program.Send, so
// a mutation made on the event loop would block on its own Send.
//
// View reads tracker snapshots directly; the change messages only trigger a
// redraw.
//
// # Theming
//
// Themes are shared palettes (Nightfox, Kanagawa, Slate) cycled with T. The
// chosen theme and fetch mode are saved to the preferences file.
package ui
