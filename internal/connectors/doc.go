// Package connectors holds the adapters that bring documents into
// ContextGuard. The filesystem connector loads local files and watches
// them for changes.
package connectors
