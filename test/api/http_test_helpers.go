package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
)

type responseAssertion func(*http.Response)

// sendRequest marshals req, fires it at url, runs the assertions
// against the raw response, and decodes the body into TResp when the
// server sent one.
func sendRequest[TReq any, TResp any](
	c *http.Client,
	url string,
	method string,
	req TReq,
	opts ...responseAssertion,
) (TResp, error) {
	var resp TResp

	payload, err := json.Marshal(req)
	if err != nil {
		return resp, err
	}

	httpReq, err := http.NewRequest(method, url, bytes.NewReader(payload))
	if err != nil {
		return resp, err
	}

	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.Do(httpReq)
	if err != nil {
		return resp, err
	}

	defer func() {
		_ = httpResp.Body.Close()
	}()

	for _, opt := range opts {
		opt(httpResp)
	}

	responsePayload, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return resp, err
	}

	if len(responsePayload) == 0 {
		return resp, nil
	}

	if err := json.Unmarshal(responsePayload, &resp); err != nil {
		return resp, err
	}

	return resp, nil
}
