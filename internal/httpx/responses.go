package httpx

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	jsoniter "github.com/json-iterator/go"
)

var jsonCodec = jsoniter.ConfigCompatibleWithStandardLibrary

// Envelope status tags.
const (
	StatusSuccess = "success"
	StatusFail    = "fail"
	StatusError   = "error"
)

// Response is the envelope every JSON endpoint answers with.
type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// JSON writes resp with the given HTTP status code.
func JSON(w http.ResponseWriter, statusCode int, resp Response) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	_ = jsonCodec.NewEncoder(w).Encode(resp)
}

func JSONSuccess(w http.ResponseWriter, data interface{}, message string) {
	JSON(w, http.StatusOK, Response{
		Status:  StatusSuccess,
		Message: message,
		Data:    data,
	})
}

func JSONSuccessCreated(w http.ResponseWriter, data interface{}, message string) {
	JSON(w, http.StatusCreated, Response{
		Status:  StatusSuccess,
		Message: message,
		Data:    data,
	})
}

// JSONFail reports a client-caused error (4xx).
func JSONFail(w http.ResponseWriter, statusCode int, message string) {
	JSON(w, statusCode, Response{
		Status:  StatusFail,
		Message: message,
	})
}

// JSONError reports a server-side error (5xx).
func JSONError(w http.ResponseWriter, statusCode int, message string) {
	JSON(w, statusCode, Response{
		Status:  StatusError,
		Message: message,
	})
}

// ErrPayloadTooLarge is returned by DecodeJSON when the body exceeds the
// limit set by RequestSizeLimitMiddleware.
var ErrPayloadTooLarge = errors.New("payload too large")

// DecodeJSON reads the request body into v. An empty body decodes to the zero
// value; anything after the first JSON value other than whitespace is an error.
func DecodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return nil
	}
	data, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return ErrPayloadTooLarge
		}
		return err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	return jsonCodec.Unmarshal(data, v)
}
