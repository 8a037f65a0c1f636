// Package redact masks credentials embedded in URLs before they are printed
// or logged.
package redact

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Token replaces the value of every redacted query parameter.
const Token = "REDACTED"

// DefaultParams are the query parameters masked when none are given.
var DefaultParams = []string{"key", "access_key", "signature"}

var ErrUnparsable = errors.New("redact: unparsable url")

// URL returns raw with the values of params replaced by Token. Parameter
// order and the encoding of untouched parameters are preserved.
//
// It fails closed: when raw cannot be parsed the original is never returned.
func URL(raw string, params ...string) (string, error) {
	if len(params) == 0 {
		params = DefaultParams
	}

	u, err := url.Parse(raw)
	if err != nil {
		// url.Parse echoes its input, so only the cause is kept.
		var perr *url.Error
		if errors.As(err, &perr) {
			err = perr.Err
		}
		return "", fmt.Errorf("%w: %s", ErrUnparsable, err.Error())
	}

	if u.RawQuery == "" {
		return u.String(), nil
	}

	pairs := strings.Split(u.RawQuery, "&")
	for i, pair := range pairs {
		name, _, _ := strings.Cut(pair, "=")
		unescaped, err := url.QueryUnescape(name)
		if err != nil {
			return "", fmt.Errorf("%w: query parameter %d: %s", ErrUnparsable, i, err.Error())
		}

		if contains(params, unescaped) {
			pairs[i] = name + "=" + Token
		}
	}

	u.RawQuery = strings.Join(pairs, "&")
	return u.String(), nil
}

// Query returns a copy of q with the values of params replaced by Token.
func Query(q url.Values, params ...string) url.Values {
	if len(params) == 0 {
		params = DefaultParams
	}

	out := make(url.Values, len(q))
	for k, vs := range q {
		if contains(params, k) {
			masked := make([]string, len(vs))
			for i := range masked {
				masked[i] = Token
			}
			out[k] = masked
			continue
		}

		out[k] = append([]string(nil), vs...)
	}

	return out
}

// Error masks the request URL carried by a *url.Error anywhere in err's
// chain. net/http fills it with the full URL, query string included.
func Error(err error) error {
	var uerr *url.Error
	if !errors.As(err, &uerr) {
		return err
	}

	return &maskedError{
		msg:   strings.ReplaceAll(err.Error(), uerr.URL, String(uerr.URL)),
		cause: uerr.Err,
	}
}

type maskedError struct {
	msg   string
	cause error
}

func (e *maskedError) Error() string { return e.msg }

// Unwrap skips the *url.Error so the unmasked URL cannot be recovered.
func (e *maskedError) Unwrap() error { return e.cause }

// String is URL for log lines: on failure the whole value is masked.
func String(raw string) string {
	safe, err := URL(raw)
	if err != nil {
		return Token
	}

	return safe
}

func contains(params []string, name string) bool {
	for _, p := range params {
		if p == name {
			return true
		}
	}

	return false
}
