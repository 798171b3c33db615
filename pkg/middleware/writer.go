// Package middleware holds the HTTP middleware chain of the catalog API:
// correlation ids and access logs, panic recovery, auth, rate limiting,
// metrics, tracing and CORS.
package middleware

import (
	"net/http"

	"github.com/Sudhanshu9000/BazzarNet1.1/pkg/httputil"
)

// statusRecorder captures the status code and body size written by the
// next handler.
type statusRecorder struct {
	http.ResponseWriter
	status      int
	bytes       int
	wroteHeader bool
}

func newStatusRecorder(w http.ResponseWriter) *statusRecorder {
	if rec, ok := w.(*statusRecorder); ok {
		return rec
	}
	return &statusRecorder{ResponseWriter: w, status: http.StatusOK}
}

func (rw *statusRecorder) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.status = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *statusRecorder) Write(b []byte) (int, error) {
	if !rw.wroteHeader {
		rw.wroteHeader = true
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.bytes += n
	return n, err
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (rw *statusRecorder) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	httputil.WriteJSON(w, status, httputil.ErrorEnvelope{Error: &httputil.ErrorResponse{
		Code:      code,
		Message:   message,
		RequestID: correlationID(r),
	}})
}
