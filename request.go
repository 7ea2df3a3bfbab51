package pushover

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"io/ioutil"
	"mime/multipart"
	"net/http"
	"net/url"
	"sort"
	"strings"
)

// Response is the decoded body of a successful API call. Only answers
// below 400 produce a Response: 4xx answers are returned as RequestError
// and 5xx answers as ServerError rather than decoded.
type Response struct {
	StatusCode int      `json:"-"`
	Status     int      `json:"status"`
	Request    string   `json:"request"`
	Receipt    string   `json:"receipt,omitempty"`
	Errors     []string `json:"errors,omitempty"`

	// Body is the raw JSON answer, for endpoint specific fields.
	Body json.RawMessage `json:"-"`
}

// Decode unmarshals the raw answer into v.
func (r *Response) Decode(v interface{}) error {
	return Error.Wrap(json.Unmarshal(r.Body, v))
}

func (r *Response) String() string {
	return string(r.Body)
}

type attachment struct {
	name string
	r    io.Reader
}

// do performs exactly one call against the API. The token is added to
// params. 4xx answers become a RequestError and 5xx answers a ServerError;
// neither is retried.
func (c *Client) do(ctx context.Context, method, path string,
	params url.Values, file *attachment) (*Response, error) {
	if c.token == "" {
		return nil, MissingTokenError.New("no API token configured")
	}
	if params == nil {
		params = url.Values{}
	}
	params.Set("token", c.token)

	req, err := newRequest(ctx, method, c.endpoint+path, params, file)
	if err != nil {
		return nil, Error.Wrap(err)
	}
	logger.Debugf("request: %s %s", method, path)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, Error.Wrap(err)
	}
	defer resp.Body.Close()

	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, Error.Wrap(err)
	}
	logger.Debugf("response: %d %s", resp.StatusCode, body)

	switch {
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		var rejected Response
		// a body that is not JSON still yields a RequestError
		_ = json.Unmarshal(body, &rejected)
		reasons := rejected.Errors
		if len(reasons) == 0 {
			reasons = []string{http.StatusText(resp.StatusCode)}
		}
		return nil, newRequestError(resp.StatusCode, reasons)
	case resp.StatusCode >= 500:
		return nil, newServerError(resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	answer := &Response{
		StatusCode: resp.StatusCode,
		Body:       body,
	}
	if err := json.Unmarshal(body, answer); err != nil {
		return nil, Error.Wrap(err)
	}
	return answer, nil
}

func newRequest(ctx context.Context, method, endpoint string,
	params url.Values, file *attachment) (*http.Request, error) {
	if method == http.MethodGet {
		return http.NewRequestWithContext(ctx, method,
			endpoint+"?"+params.Encode(), nil)
	}

	if file == nil {
		req, err := http.NewRequestWithContext(ctx, method, endpoint,
			strings.NewReader(params.Encode()))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req, nil
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		for _, value := range params[key] {
			if err := w.WriteField(key, value); err != nil {
				return nil, err
			}
		}
	}
	part, err := w.CreateFormFile("attachment", file.name)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, file.r); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req, nil
}
