package modules

import (
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/latch-lang/latch/internal/value"
)

func httpClient() *http.Client {
	timeout := 30 * time.Second
	if v := os.Getenv("LATCH_HTTP_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			timeout = d
		}
	}
	return &http.Client{Timeout: timeout}
}

func httpModule() *value.Dict {
	return dictOf(
		builtin("get", 1, func(a []value.V) (value.V, error) {
			url, err := wantString(a, 0, "http.get")
			if err != nil {
				return nil, err
			}
			return doRequest("GET", url, "", nil)
		}),
		builtin("post", 2, func(a []value.V) (value.V, error) {
			url, err := wantString(a, 0, "http.post")
			if err != nil {
				return nil, err
			}
			body, err := wantString(a, 1, "http.post")
			if err != nil {
				return nil, err
			}
			return doRequest("POST", url, body, nil)
		}),
		builtin("request", 3, func(a []value.V) (value.V, error) {
			method, err := wantString(a, 0, "http.request")
			if err != nil {
				return nil, err
			}
			url, err := wantString(a, 1, "http.request")
			if err != nil {
				return nil, err
			}
			body, err := wantString(a, 2, "http.request")
			if err != nil {
				return nil, err
			}
			return doRequest(method, url, body, nil)
		}),
	)
}

func doRequest(method, url, body string, headers *value.Dict) (value.V, error) {
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		return nil, netErr("http.%s: %s", strings.ToLower(method), err)
	}
	if headers != nil {
		for _, k := range headers.SortedKeys() {
			v, _ := headers.Get(k)
			if s, ok := v.(value.String); ok {
				req.Header.Set(k, string(s))
			}
		}
	}
	resp, err := httpClient().Do(req)
	if err != nil {
		return nil, netErr("http.%s: %s", strings.ToLower(method), err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, netErr("http.%s: reading response: %s", strings.ToLower(method), err)
	}
	hdrs := value.NewDict()
	for k := range resp.Header {
		hdrs.Set(k, value.String(resp.Header.Get(k)))
	}
	return &value.Response{Status: int64(resp.StatusCode), Body: string(data), Headers: hdrs}, nil
}
