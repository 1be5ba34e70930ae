// Package services implements the two companion-service HTTP clients the
// core pipeline delegates to (§6): the GL→OL converter, which replaces a
// TSV's English OrigWords/Occurrence columns with original-language
// quotations, and add-GL-quote, which appends GLQuote/GLOccurrence
// columns. Both failure modes are recovered in-process per §7: the core
// never sees a hard error from either call, only a TSV it can fall back
// on.
package services

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	twlerrors "github.com/unfoldingword/twl/core/errors"
	"github.com/unfoldingword/twl/internal/logging"
)

// Client calls the two companion services over HTTP.
type Client struct {
	HTTP               *http.Client
	GLOLEndpoint       string
	AddGLQuoteEndpoint string
}

// NewClient builds a Client. If httpClient is nil, a client with a
// 30-second timeout is used.
func NewClient(httpClient *http.Client, glOLEndpoint, addGLQuoteEndpoint string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{HTTP: httpClient, GLOLEndpoint: glOLEndpoint, AddGLQuoteEndpoint: addGLQuoteEndpoint}
}

// ConvertGLToOL posts tsv (whose OrigWords column holds English
// quotations) to the GL→OL converter and returns the TSV it sends back,
// with OrigWords/Occurrence replaced by original-language quotations and
// counts. On any failure, it returns tsv unchanged and ok=false: the
// caller's fallback is to leave the English columns as-is (§7).
func (c *Client) ConvertGLToOL(ctx context.Context, tsv string) (string, bool) {
	if c.GLOLEndpoint == "" {
		return tsv, false
	}
	out, err := c.post(ctx, c.GLOLEndpoint, tsv)
	if err != nil {
		logging.ServiceFallback("gl-ol-converter", err)
		return tsv, false
	}
	return out, true
}

// AddGLQuote posts tsv to the add-GL-quote service and returns the TSV it
// sends back with GLQuote/GLOccurrence columns appended. On any failure,
// ok is false and the caller's fallback is to duplicate OrigWords/
// Occurrence into GLQuote/GLOccurrence (§7).
func (c *Client) AddGLQuote(ctx context.Context, tsv string) (string, bool) {
	if c.AddGLQuoteEndpoint == "" {
		return tsv, false
	}
	out, err := c.post(ctx, c.AddGLQuoteEndpoint, tsv)
	if err != nil {
		logging.ServiceFallback("add-gl-quote", err)
		return tsv, false
	}
	return out, true
}

func (c *Client) post(ctx context.Context, endpoint, tsv string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBufferString(tsv))
	if err != nil {
		return "", twlerrors.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", "text/tab-separated-values")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", twlerrors.NewIO("post", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", twlerrors.NewIO("post", endpoint, errStatus(resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", twlerrors.NewIO("read", endpoint, err)
	}
	return string(body), nil
}

type statusError int

func (e statusError) Error() string {
	return "unexpected status " + strconv.Itoa(int(e))
}

func errStatus(code int) error {
	return statusError(code)
}
