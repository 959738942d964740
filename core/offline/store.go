package offline

import (
	"bytes"
	"io/ioutil"
	"net/http"

	"github.com/pkg/errors"
)

// ErrEntryNotFound is returned by a Store when no entry matches.
var ErrEntryNotFound = errors.New("cache entry not found")

// Entry is a stored response. Entries are valid indefinitely: nothing evicts
// an individual entry, only deleting its whole generation does.
type Entry struct {
	Status int
	Header http.Header
	Body   []byte
}

// Response materializes the entry as an http.Response for the given request.
func (e Entry) Response(req *http.Request) *http.Response {
	return &http.Response{
		Status:        http.StatusText(e.Status),
		StatusCode:    e.Status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        cloneHeader(e.Header),
		Body:          ioutil.NopCloser(bytes.NewReader(e.Body)),
		ContentLength: int64(len(e.Body)),
		Request:       req,
	}
}

func cloneHeader(h http.Header) http.Header {
	clone := make(http.Header, len(h))
	for k, vv := range h {
		clone[k] = append([]string(nil), vv...)
	}
	return clone
}

// Key identifies an entry by request method and URL.
func Key(method, url string) string {
	return method + " " + url
}

// Store holds cached responses grouped by generation. Exactly one generation
// is meant to be live at a time; Activate enforces that by deleting the rest.
type Store interface {
	Get(generation, key string) (Entry, error)
	Put(generation, key string, entry Entry) error
	// PutAll commits every entry or none; used by the install phase so an
	// incomplete offline set is never retained.
	PutAll(generation string, entries map[string]Entry) error
	Generations() ([]string, error)
	DeleteGeneration(name string) error
}
