// Package logtail reads the tail of cattery's log file for the in-app log
// view.
//
// Read keeps a ring buffer of the last maxLines lines, so memory stays
// O(maxLines) however large the file grows. A missing file is not an error:
// nothing has been logged yet.
//
// Classify maps a line to a display severity based on the words the client
// and session use when they log failures and superseded fetches.
package logtail
