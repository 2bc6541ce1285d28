package choropleth

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"

	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/s3blob"
	"gocloud.dev/gcerrors"
)

// StatusError is returned when an HTTP request does not succeed.
type StatusError struct {
	URL        string
	StatusCode int
}

func (err *StatusError) Error() string {
	return fmt.Sprintf("%s: HTTP %d %s", err.URL, err.StatusCode, http.StatusText(err.StatusCode))
}

// NotFound returns true if the error signals a missing resource.
func NotFound(err error) bool {
	if statusErr, ok := err.(*StatusError); ok {
		return statusErr.StatusCode == http.StatusNotFound
	}
	return os.IsNotExist(err) || gcerrors.Code(err) == gcerrors.NotFound
}

// Fetcher retrieves documents from HTTP(S) URLs, blob buckets (s3://, file://, mem://, ...) or local paths.
type Fetcher struct {
	Client *http.Client
	Mux    *blob.URLMux // uses blob.DefaultURLMux when nil
	Log    *slog.Logger
}

// NewFetcher returns a fetcher using the default HTTP client and bucket openers.
func NewFetcher(log *slog.Logger) *Fetcher {
	return &Fetcher{
		Client: http.DefaultClient,
		Log:    log,
	}
}

// Fetch returns the contents at location.
func (f *Fetcher) Fetch(ctx context.Context, location string) ([]byte, error) {
	u, err := url.Parse(location)
	if err != nil || u.Scheme == "" || len(u.Scheme) == 1 {
		// no scheme or Windows drive letter
		return f.fetchFile(location)
	}

	switch u.Scheme {
	case "http", "https":
		return f.fetchHTTP(ctx, location)
	default:
		return f.fetchBlob(ctx, u)
	}
}

func (f *Fetcher) fetchHTTP(ctx context.Context, location string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Cache-Control", "no-cache")

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	f.logf("Fetch %s → HTTP %d", location, resp.StatusCode)
	if resp.StatusCode < 200 || 300 <= resp.StatusCode {
		return nil, &StatusError{URL: location, StatusCode: resp.StatusCode}
	}
	return io.ReadAll(resp.Body)
}

// fetchBlob opens the bucket given by scheme and host and reads the key given by the path.
func (f *Fetcher) fetchBlob(ctx context.Context, u *url.URL) ([]byte, error) {
	key := strings.TrimPrefix(u.Path, "/")
	if key == "" {
		return nil, fmt.Errorf("%s: missing object key", u.Redacted())
	}
	bucketURL := *u
	bucketURL.Path = ""
	bucketURL.RawPath = ""
	if u.Scheme == "file" {
		bucketURL.Path = "/"
	}

	mux := f.Mux
	if mux == nil {
		mux = blob.DefaultURLMux()
	}
	bucket, err := mux.OpenBucket(ctx, bucketURL.String())
	if err != nil {
		return nil, err
	}
	defer bucket.Close()

	data, err := bucket.ReadAll(ctx, key)
	if err != nil {
		f.logf("Fetch %s → %v", u.Redacted(), gcerrors.Code(err))
		return nil, err
	}
	f.logf("Fetch %s → OK", u.Redacted())
	return data, nil
}

func (f *Fetcher) fetchFile(filename string) ([]byte, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		f.logf("Fetch %s → %v", filename, err)
		return nil, err
	}
	f.logf("Fetch %s → OK", filename)
	return data, nil
}

func (f *Fetcher) logf(format string, args ...interface{}) {
	if f.Log != nil {
		f.Log.Info(fmt.Sprintf(format, args...))
	}
}
