// Package api exposes the HTTP interface for the extraction service.
package api
