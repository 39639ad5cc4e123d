// Package app is cattery's composition root.
//
// Run loads configuration and preferences, routes the standard logger to the
// log file, opens the favourites store on the configured storage backend and
// builds a session around the cataas client. It then sweeps preview files
// left by earlier runs, starts a background tag prefetch, and hands
// everything to the UI until the user quits.
//
// Fatal errors (returned from Run) cover bad configuration, an unusable base
// URL and storage that cannot be opened or decoded. Fetch failures never stop
// the program; they surface in the UI and the log.
package app
