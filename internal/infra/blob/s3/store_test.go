package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"

	"estatecore/internal/blob/core"
)

// fakeBucket answers the handful of S3 REST calls the store issues.
type fakeBucket struct {
	mu      sync.Mutex
	objects map[string]fakeObject
}

type fakeObject struct {
	body        []byte
	contentType string
}

func (f *fakeBucket) Do(req *http.Request) (*http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	parts := strings.SplitN(strings.TrimPrefix(req.URL.Path, "/"), "/", 2)
	key := ""
	if len(parts) == 2 {
		key = parts[1]
	}
	if req.Method == http.MethodGet && req.URL.Query().Get("list-type") == "2" {
		return f.list(req.URL.Query().Get("prefix")), nil
	}
	switch req.Method {
	case http.MethodHead, http.MethodGet:
		obj, ok := f.objects[key]
		if !ok {
			body := ""
			if req.Method == http.MethodGet {
				body = "<Error><Code>NoSuchKey</Code><Message>missing</Message></Error>"
			}
			return response(http.StatusNotFound, body, http.Header{"Content-Type": {"application/xml"}}), nil
		}
		header := http.Header{
			"Content-Length": {strconv.Itoa(len(obj.body))},
			"Content-Type":   {obj.contentType},
			"Etag":           {`"etag-` + key + `"`},
			"Last-Modified":  {"Mon, 01 Jan 2024 00:00:00 GMT"},
		}
		if req.Method == http.MethodHead {
			return response(http.StatusOK, "", header), nil
		}
		return response(http.StatusOK, string(obj.body), header), nil
	case http.MethodPut:
		raw, _ := io.ReadAll(req.Body)
		if decoded, ok := decodeChunked(raw); ok {
			raw = decoded
		}
		f.objects[key] = fakeObject{body: raw, contentType: req.Header.Get("Content-Type")}
		return response(http.StatusOK, "", http.Header{"Etag": {`"etag"`}}), nil
	case http.MethodDelete:
		delete(f.objects, key)
		return response(http.StatusNoContent, "", http.Header{}), nil
	}
	return response(http.StatusNotImplemented, "", http.Header{}), nil
}

func (f *fakeBucket) list(prefix string) *http.Response {
	keys := make([]string, 0, len(f.objects))
	for k := range f.objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?><ListBucketResult><IsTruncated>false</IsTruncated>`)
	for _, k := range keys {
		fmt.Fprintf(&b, "<Contents><Key>%s</Key><Size>%d</Size><ETag>&quot;etag&quot;</ETag><LastModified>2024-01-01T00:00:00Z</LastModified></Contents>", k, len(f.objects[k].body))
	}
	b.WriteString("</ListBucketResult>")
	return response(http.StatusOK, b.String(), http.Header{"Content-Type": {"application/xml"}})
}

func response(status int, body string, header http.Header) *http.Response {
	return &http.Response{StatusCode: status, Header: header, Body: io.NopCloser(strings.NewReader(body)), ContentLength: int64(len(body))}
}

// decodeChunked unwraps an aws-chunked body: <hex>\r\n<data>\r\n0\r\n[trailers]\r\n.
func decodeChunked(raw []byte) ([]byte, bool) {
	head, rest, ok := bytes.Cut(raw, []byte("\r\n"))
	if !ok {
		return nil, false
	}
	size, err := strconv.ParseInt(string(bytes.TrimSpace(bytes.SplitN(head, []byte(";"), 2)[0])), 16, 64)
	if err != nil || int64(len(rest)) < size+2 {
		return nil, false
	}
	if !bytes.HasPrefix(rest[size:], []byte("\r\n0")) {
		return nil, false
	}
	return rest[:size], true
}

func newFakeStore(t *testing.T) (*Store, *fakeBucket) {
	t.Helper()
	fake := &fakeBucket{objects: make(map[string]fakeObject)}
	store, err := New(context.Background(), Config{
		Bucket:          "estate",
		Endpoint:        "http://s3.local",
		AccessKeyID:     "AKIA",
		SecretAccessKey: "SECRET",
		PathStyle:       true,
		HTTPClient:      fake,
	})
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store, fake
}

func TestNewRequiresBucket(t *testing.T) {
	if _, err := New(context.Background(), Config{}); err == nil {
		t.Fatalf("expected bucket error")
	}
}

func TestStoreRoundTrip(t *testing.T) {
	store, fake := newFakeStore(t)
	ctx := context.Background()
	if store.Driver() != core.DriverS3 {
		t.Fatalf("unexpected driver %s", store.Driver())
	}
	info, err := store.Put(ctx, "snapshots/a.json", strings.NewReader(`{"version":1}`), core.PutOptions{ContentType: "application/json"})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if info.Key != "snapshots/a.json" || info.URL != "http://s3.local/estate/snapshots/a.json" {
		t.Fatalf("unexpected info %+v", info)
	}
	if got := string(fake.objects["snapshots/a.json"].body); got != `{"version":1}` {
		t.Fatalf("unexpected stored body %q", got)
	}
	if _, err := store.Put(ctx, "snapshots/a.json", strings.NewReader("x"), core.PutOptions{}); err == nil {
		t.Fatalf("expected duplicate put to fail")
	}

	_, rc, err := store.Get(ctx, "snapshots/a.json")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	body, _ := io.ReadAll(rc)
	_ = rc.Close()
	if string(body) != `{"version":1}` {
		t.Fatalf("unexpected body %q", body)
	}

	list, err := store.List(ctx, "snapshots/")
	if err != nil || len(list) != 1 || list[0].ETag != "etag" {
		t.Fatalf("unexpected list %+v err=%v", list, err)
	}

	if _, err := store.Head(ctx, "missing"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, _, err := store.Get(ctx, "missing"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected not found on get, got %v", err)
	}
	ok, err := store.Delete(ctx, "snapshots/a.json")
	if err != nil || !ok {
		t.Fatalf("delete: %v %v", ok, err)
	}
	ok, err = store.Delete(ctx, "snapshots/a.json")
	if err != nil || ok {
		t.Fatalf("expected second delete to report false: %v %v", ok, err)
	}
}

func TestPresignURL(t *testing.T) {
	store, _ := newFakeStore(t)
	url, err := store.PresignURL(context.Background(), "exports/s.json", core.SignedURLOptions{})
	if err != nil {
		t.Fatalf("presign: %v", err)
	}
	if !strings.Contains(url, "exports/s.json") || !strings.Contains(url, "X-Amz-Signature") {
		t.Fatalf("unexpected url %s", url)
	}
	if _, err := store.PresignURL(context.Background(), "k", core.SignedURLOptions{Method: "PUT"}); !errors.Is(err, core.ErrUnsupported) {
		t.Fatalf("expected unsupported, got %v", err)
	}
}
