// Package mcpsrv runs harbind as an MCP server.
//
// NewServer loads configuration from the environment (see WithConfig to
// override it), installs the default logger, and registers the builtin
// tools (harbind_infer, harbind_session_headers, harbind_match,
// harbind_archives), the replay_session prompt and the report schema
// resource. Archives are parsed once and cached by path, size and
// modification time, so repeated tool calls on one file are cheap.
//
//	srv, err := mcpsrv.NewServer(mcpsrv.WithLogLevel("debug"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer srv.Close()
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// # Custom tools
//
// WithTool registers a plain handler. WithDepsTool hands the builder the
// server's Deps, giving custom tools the same archive store and matcher the
// builtin tools use; see examples/count-requests.
//
// Output types are checked at registration: a field whose zero value
// would fail the schema the SDK infers (a nil slice without omitzero, a
// json.RawMessage) panics with the offending path.
package mcpsrv
