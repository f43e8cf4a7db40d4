package request

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"

	"github.com/ccs-digital/login-director/domain"
)

// Capsule is an immutable snapshot of an inbound request, held until the user
// has been processed and their request is ready to be actioned. Only the
// fields needed to rebuild the outgoing request are kept - the request itself
// cannot be stored across the multi-step flow.
type Capsule struct {
	Domain   string `json:"domain"`
	Protocol string `json:"protocol"`
	Path     string `json:"requestedPath"`
	Method   string `json:"httpFormat"`
}

// Capture snapshots an inbound request.
func Capture(r *http.Request) Capsule {
	protocol := "https"
	if r.TLS == nil {
		if forwarded := r.Header.Get("X-Forwarded-Proto"); forwarded != "" {
			protocol = forwarded
		} else {
			protocol = "http"
		}
	}

	return Capsule{
		Domain:   r.Host,
		Protocol: protocol,
		Path:     r.URL.RequestURI(),
		Method:   r.Method,
	}
}

// TargetURL builds the URL the actioned request is forwarded to. Jaegger
// requests always go to the domain root; CAS requests go to wherever the
// user originally asked for.
func (c Capsule) TargetURL(family domain.Domain) string {
	if family == domain.Jaegger {
		return c.Protocol + "://" + c.Domain
	}
	return c.Protocol + "://" + c.Domain + c.Path
}

// Encode serializes the capsule for the browser session store.
func (c Capsule) Encode() (string, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return "", errors.Wrap(err, "[Capsule Encode] marshal failed")
	}
	return string(data), nil
}

// Decode restores a capsule from its session-store form.
func Decode(value string) (Capsule, error) {
	var c Capsule
	if err := json.Unmarshal([]byte(value), &c); err != nil {
		return Capsule{}, errors.Wrap(err, "[Capsule Decode] unmarshal failed")
	}
	return c, nil
}
