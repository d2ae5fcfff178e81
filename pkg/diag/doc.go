// Package diag merges diagnostics from every pipeline stage into one ordered
// channel and implements the line-oriented wire format handed to foreign
// callers.
//
// The wire format is one diagnostic per line:
//
//	severity|line:column|kind: message
//
// The location field is blank when unknown. Newlines, carriage returns and
// backslashes inside the message are escaped as \n, \r and \\ so that a
// consumer can always split on "\n".
package diag
