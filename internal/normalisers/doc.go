// Package normalisers provides implementations of the Normaliser interface
// for chat export formats. Text formats produce transcript text for the line
// parser; structured formats produce messages directly.
//
// Normalisers are registered with the NormaliserRegistry at startup.
package normalisers
