// Package server implements the MCP (Model Context Protocol) server for the
// compositing pipeline.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
//   - image_load: Load image and get metadata
//   - image_dimensions: Get width and height
//   - image_compose: Render an edit configuration and return or write a PNG
//   - image_wallpaper_presets: List wallpaper presets
//   - image_placement_guide: Draw percentage guide lines for choosing positions
//
// Image overlays named in an edit configuration are resolved through the
// pipeline's image source, normally the upload directory.
//
// # Image Caching
//
// Source images are cached by path for the lifetime of the server process.
// Rendering never modifies a cached image.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string, e.g. "text stage failed: invalid color format: ..."
//
// # Usage
//
//	srv := server.New(pipeline, server.WithLogger(log))
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal().Err(err).Msg("mcp server failed")
//	}
package server
