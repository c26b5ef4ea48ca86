// Package controller contains HTTP middlewares and helper handlers used by the API server.
//
// Provided middlewares:
//   - WithCORS: Adds permissive CORS headers and handles OPTIONS preflight.
//   - WithLogger: Attaches a request-scoped logger and request ID to the context and logs access info.
//   - WithRawBody: Keeps a copy of the raw request payload in the context.
//   - WithRecover: Turns handler panics into errors for the error handler.
//   - WithTimeout: Answers TIMEOUT (504) when a handler outlives the request deadline.
//   - Deprecated: Logs every call of a deprecated route.
//
// Provided helpers:
//   - SendError: Writes the {code, message, clarification} error payload.
//   - NewErrorHandler, NotFoundHandler: Generic error and unmatched route handlers.
//   - Handle: Adapts error returning handlers to http.Handler.
//   - DecodeJSON: Decodes a JSON body, reporting malformed or trailing data as ErrBodyParse.
//   - PprofMux: Returns a ServeMux exposing net/http/pprof handlers.
package controller
