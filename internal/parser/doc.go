// Package parser turns exported chat transcript text into ordered messages.
//
// Input is consumed line by line. Each line is tried against HeaderPatterns in
// order; a match starts a new message, anything else continues the message in
// progress or is discarded when no message has started yet. Dates are read
// day-first (D/M/Y) with no locale detection, so US-ordered exports are
// misread. Overflowing components roll over the calendar, so 1/15/2025 is
// day 1 of month 15, i.e. 1 March 2026.
//
// Header lines whose date or time is out of range are recorded as anomalies
// and produce no message; parsing always continues.
package parser
