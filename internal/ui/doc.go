// Package ui provides the colour themes shared by the console output and the
// terminal dashboard, including the colours of the utilisation bands.
package ui
