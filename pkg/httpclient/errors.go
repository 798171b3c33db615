package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/Sudhanshu9000/BazzarNet1.1/pkg/errors"
)

// downstreamError mirrors the {"error": {"code", "message"}} envelope that
// marketplace services return.
type downstreamError struct {
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// ParseResponseError consumes and closes a non-2xx response and converts it
// into an error. Structured bodies keep their semantics as AppErrors; other
// bodies become plain errors carrying the status and raw text.
func ParseResponseError(resp *http.Response, service string) error {
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%s returned status %d (read body: %w)", service, resp.StatusCode, err)
	}

	var de downstreamError
	if json.Unmarshal(body, &de) != nil || de.Error == nil {
		return fmt.Errorf("%s returned status %d: %s", service, resp.StatusCode, body)
	}

	msg := fmt.Sprintf("%s: %s", service, de.Error.Message)
	switch resp.StatusCode {
	case http.StatusNotFound:
		return apperrors.NotFound(service+" resource", de.Error.Message)
	case http.StatusBadRequest:
		return apperrors.InvalidInput(msg)
	case http.StatusUnauthorized:
		return apperrors.Unauthorized(msg)
	case http.StatusForbidden:
		return apperrors.Forbidden(msg)
	case http.StatusServiceUnavailable:
		return apperrors.ServiceUnavailable(service, fmt.Errorf("%s", de.Error.Message))
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("%s server error (%d/%s): %s", service, resp.StatusCode, de.Error.Code, de.Error.Message)
	}
	return &apperrors.AppError{Code: de.Error.Code, Message: msg, Status: resp.StatusCode}
}
