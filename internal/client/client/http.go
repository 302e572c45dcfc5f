package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/atomist-global-seeds/blockstack-browser/internal/client/models"
)

const (
	VerifyPath   = "/verify"
	RecoveryPath = "/recovery"
	RestorePath  = "/restore"
)

// HTTPGateway posts JSON bodies to the three gateway endpoints under base.
type HTTPGateway struct {
	base string
	http *http.Client
}

// NewHTTPGateway returns a gateway client with the given per-request timeout.
func NewHTTPGateway(base string, timeout time.Duration) *HTTPGateway {
	return &HTTPGateway{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: timeout},
	}
}

func (g *HTTPGateway) SendVerification(ctx context.Context, req models.VerificationRequest) error {
	return g.post(ctx, VerifyPath, req)
}

func (g *HTTPGateway) SendRecovery(ctx context.Context, req models.RecoveryRequest) error {
	return g.post(ctx, RecoveryPath, req)
}

func (g *HTTPGateway) SendRestore(ctx context.Context, req models.RestoreRequest) error {
	return g.post(ctx, RestorePath, req)
}

func (g *HTTPGateway) post(ctx context.Context, path string, in any) error {
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(in); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.base+path, buf)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: post %s: %w", ErrUnavailable, path, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("%w: post %s: %s", ErrRejected, path, resp.Status)
	}
	return nil
}

var _ Gateway = (*HTTPGateway)(nil)
