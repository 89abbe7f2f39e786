// Package main provides the entry point for the ZoneKeeper DNS console.
// It initializes and runs a web service using the Fiber framework that lets
// users create, update, import and export DNS zones through a JSON API.
// Zones are persisted through gorm and can optionally be mirrored to an
// upstream PowerDNS authoritative server.
package main
