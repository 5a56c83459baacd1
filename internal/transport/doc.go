// Package transport provides the two front ends that frame the protocol:
// a line-delimited local stream and an authenticated HTTP endpoint.
//
// # Stdio
//
// StdioServer reads one JSON-RPC record per input line and writes one
// response line per answered request, flushing after every write so an
// attached client never waits on buffering. Unusable records are skipped;
// the read loop never crashes the process.
//
// # HTTP
//
// HTTPServer exposes two routes:
//
//	GET  /health        unauthenticated, fixed {"status":"ok"}
//	POST /{apiKey}/mcp  JSON-RPC envelope in the body
//
// The API key rides in the URL path and is compared in constant time
// against the configured secret. Rejections map to plain HTTP statuses:
// 401 bad key, 404 bad path shape, 415 bad content type, 400 empty body
// (with a pre-formed -32700 envelope). Notifications return 202 with an
// empty body. Authentication is checked strictly before the body is read,
// so an unauthenticated request can never reach tool execution.
package transport
