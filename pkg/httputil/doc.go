// Package httputil provides HTTP utilities for standardized request/response handling.
//
// # Response Helpers
//
// Every endpoint answers with the `{success, message}` envelope:
//
//	httputil.WriteSuccessMessage(w, "Project deleted successfully")
//	httputil.WriteValidationError(w, "All fields are required")
//	httputil.WriteUnauthorized(w, "Invalid or expired token")
//	httputil.WriteForbidden(w, "You do not own this resource")
//
// Payload responses embed the envelope in a typed struct:
//
//	httputil.WriteCreated(w, api.UserResponse{Success: true, User: u})
//
// # Request Parsing
//
//	var req LoginRequest
//	if !httputil.ParseJSONOrError(w, r, &req) {
//		return // error response already written
//	}
//	id, ok := httputil.ParsePathStringOrError(w, r, "id")
//
// # Middleware
//
//	httputil.Chain(
//		httputil.RequestIDMiddleware,
//		httputil.LoggingMiddleware(logger),
//		httputil.RecoveryMiddleware(logger),
//		httputil.CORSMiddleware(origins),
//		httputil.MaxBytesMiddleware(10*1024*1024),
//	)
//
// # Related Packages
//
//   - pkg/middleware: session authentication middleware
package httputil
