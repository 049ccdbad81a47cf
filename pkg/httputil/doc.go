// Package httputil provides the JSON and HTML response helpers and the
// common middleware shared by the pricing page handlers.
//
// # Response Helpers
//
//	httputil.WriteJSON(w, http.StatusOK, pricing)
//	httputil.WriteHTML(w, http.StatusOK, body)
//	httputil.WriteBadRequest(w, "billing must be monthly or annual")
//
// # Middleware
//
//	handler := httputil.Chain(
//		httputil.RequestIDMiddleware,
//		httputil.LoggingMiddleware(logger),
//		httputil.RecoveryMiddleware(logger),
//		httputil.SecurityHeadersMiddleware,
//	)(router)
package httputil
