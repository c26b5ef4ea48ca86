package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"resolver/pkg/serrors"
)

// ErrBodyParse is the kind of errors returned by DecodeJSON for malformed
// payloads. It has no status mapping, so it surfaces as an uncaught error.
var ErrBodyParse = serrors.NewKind("BODY_PARSE_FAILED") //nolint: gochecknoglobals

var errTrailingData = errors.New("unexpected data after JSON value") //nolint: gochecknoglobals

const (
	// RawBodyKey is the context key under which the captured request payload is stored.
	RawBodyKey CtxKey = "RawBody"
)

// WithRawBody returns a middleware that reads the request payload, keeps a
// copy in the request context and hands an equivalent body to the next
// handler. Empty payloads are not stored. Payloads larger than limit bytes
// are rejected with a bad request error; limit <= 0 disables the check.
func WithRawBody(limit int64, onError ErrorHandler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body == nil || r.Body == http.NoBody {
				next.ServeHTTP(w, r)

				return
			}

			body := r.Body
			if limit > 0 {
				body = http.MaxBytesReader(w, r.Body, limit)
			}
			buf, err := io.ReadAll(body)
			_ = r.Body.Close()
			if err != nil {
				onError(w, r, serrors.Wrap(serrors.ErrBadRequest, err, "could not read request body"))

				return
			}

			r.Body = io.NopCloser(bytes.NewReader(buf))
			if len(buf) > 0 {
				r = r.WithContext(context.WithValue(r.Context(), RawBodyKey, string(buf)))
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RawBody returns the payload captured by WithRawBody.
func RawBody(ctx context.Context) (string, bool) {
	raw, ok := ctx.Value(RawBodyKey).(string)

	return raw, ok
}

// DecodeJSON decodes the request body into v. An empty body leaves v
// untouched; malformed JSON or anything but whitespace after the first value
// is reported as an ErrBodyParse error.
func DecodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}

		return serrors.Wrap(ErrBodyParse, err, "could not parse request body")
	}

	// the payload must hold exactly one JSON value
	if err := dec.Decode(&json.RawMessage{}); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errTrailingData
		}

		return serrors.Wrap(ErrBodyParse, err, "could not parse request body")
	}

	return nil
}
