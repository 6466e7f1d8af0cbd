// Package server hosts the optional HTTP surface (-serve) and the shared
// download client. The Fiber app only attaches middleware (panic recovery and
// request ids); the actual endpoints live in server/routes so the CLI can run
// without ever constructing Fiber.
package server
