// Package client contains the client-side building blocks that talk to the
// outside world: the remote CardStore service and the local cache database.
//
// # Overview
//
//  1. A transport-agnostic contract for the remote side (see Client): one
//     method per logical operation, each doing exactly one call, no retries
//     and no caching.
//  2. A gRPC implementation (GRPCClient) that attaches the client version
//     and, when a TokenSource is configured, a bearer token to every call,
//     and maps gRPC status codes to RemoteError.
//  3. Local persistence bootstrap (InitDatabase) that opens the SQLite cache,
//     applies embedded goose migrations and exposes the typed repositories.
//
// # Error Handling
//
// Remote failures are *RemoteError values carrying an HTTP-style status.
// They match the sentinels ErrUnavailable and ErrUnauthorized through
// errors.Is. A NotFound answer to a get is not an error: the result is nil.
//
// Concurrency & Contexts
//
// GRPCClient and Repositories are safe for concurrent use. Every operation
// accepts a context.Context and honours cancellation.
package client
