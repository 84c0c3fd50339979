// Package broadcast encodes a donation selection into the reference carried
// by the overlay URL and decodes it back. The reference is a comma joined id
// list; it is the only thing the wallet and the overlay share.
package broadcast

import (
	"net/url"
	"strings"
)

const (
	// QueryParam is the overlay URL query parameter holding the reference.
	QueryParam = "ids"

	// OverlayPath is the route the overlay server renders.
	OverlayPath = "/wallet/overlay"

	separator = ","
)

// Encode joins ids in the given order. An empty selection encodes to "".
func Encode(ids []string) string {
	return strings.Join(ids, separator)
}

// Decode splits a reference into ids, trimming whitespace and dropping empty
// segments. Order is preserved and duplicates are kept.
func Decode(raw string) []string {
	ids := make([]string, 0, strings.Count(raw, separator)+1)
	for _, segment := range strings.Split(raw, separator) {
		if id := strings.TrimSpace(segment); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// FromQuery decodes the reference from a request's query values. A missing
// parameter decodes to an empty list.
func FromQuery(values url.Values) []string {
	return Decode(values.Get(QueryParam))
}

// OverlayURL builds the overlay link for ids on top of base.
func OverlayURL(base string, ids []string) (string, error) {
	u, err := url.Parse(strings.TrimRight(base, "/"))
	if err != nil {
		return "", err
	}
	u.Path = strings.TrimRight(u.Path, "/") + OverlayPath

	q := u.Query()
	q.Set(QueryParam, Encode(ids))
	u.RawQuery = q.Encode()
	return u.String(), nil
}
