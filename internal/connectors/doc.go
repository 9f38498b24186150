// Package connectors provides implementations of the Connector interface
// for the supported source types. Each connector knows how to fetch raw
// documents from one kind of origin (local filesystem, website).
//
// Connectors are registered with the Factory at startup.
package connectors
