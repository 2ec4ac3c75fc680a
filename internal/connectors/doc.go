// Package connectors provides the places case materials are read from.
// Each connector knows how to load uploads from one kind of location
// and how to watch it for new arrivals.
package connectors
