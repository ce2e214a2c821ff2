package client

import (
	"context"
	"fmt"
	"strings"
	"time"

	"nest_dashboard/internal/domain/entity"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const vaultsPath = "/api/vaults"

// NestAPIClient defines the interface for interacting with the upstream
// vault metadata API.
type NestAPIClient interface {
	// FetchVaults fetches and decodes the full vault descriptor list.
	FetchVaults(ctx context.Context) ([]entity.VaultDescriptor, error)

	// FetchRaw fetches the vault list without decoding it, returning the
	// upstream status code and body verbatim for pass-through serving.
	FetchRaw(ctx context.Context) (int, []byte, error)
}

// nestAPIClientImpl is the implementation of NestAPIClient.
type nestAPIClientImpl struct {
	client  *fasthttp.Client
	baseURL string
	timeout time.Duration
	logger  *zap.Logger
}

// NewNestAPIClient creates a new instance of nestAPIClientImpl.
func NewNestAPIClient(baseURL string, timeout time.Duration, logger *zap.Logger) NestAPIClient {
	return &nestAPIClientImpl{
		client:  &fasthttp.Client{},
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		logger:  logger.Named("NestAPIClient"),
	}
}

// FetchVaults implements the NestAPIClient interface.
func (c *nestAPIClientImpl) FetchVaults(ctx context.Context) ([]entity.VaultDescriptor, error) {
	status, body, err := c.FetchRaw(ctx)
	if err != nil {
		return nil, err
	}
	if status != fasthttp.StatusOK {
		c.logger.Error("Vault API request failed",
			zap.Int("statusCode", status),
			zap.ByteString("responseBody", body))
		return nil, fmt.Errorf("vault API request failed with status %d", status)
	}

	var vaults []entity.VaultDescriptor
	if err := json.Unmarshal(body, &vaults); err != nil {
		c.logger.Error("Failed to unmarshal vault API response",
			zap.ByteString("responseBody", body),
			zap.Error(err))
		return nil, fmt.Errorf("failed to unmarshal vault API response: %w", err)
	}

	c.logger.Debug("Fetched vault descriptors", zap.Int("count", len(vaults)))
	return vaults, nil
}

// FetchRaw implements the NestAPIClient interface.
func (c *nestAPIClientImpl) FetchRaw(ctx context.Context) (int, []byte, error) {
	requestURL := c.baseURL + vaultsPath

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.SetContentTypeBytes([]byte("application/json"))

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	deadline, ok := ctx.Deadline()
	if ok {
		if err := c.client.DoDeadline(req, resp, deadline); err != nil {
			c.logger.Error("Failed to execute vault API request", zap.String("url", requestURL), zap.Error(err))
			return 0, nil, fmt.Errorf("failed to execute request to %s: %w", requestURL, err)
		}
	} else {
		if err := c.client.DoTimeout(req, resp, c.timeout); err != nil {
			c.logger.Error("Failed to execute vault API request (with default timeout)", zap.String("url", requestURL), zap.Error(err))
			return 0, nil, fmt.Errorf("failed to execute request to %s with default timeout: %w", requestURL, err)
		}
	}

	// resp.Body() is only valid until release; copy it out.
	body := append([]byte(nil), resp.Body()...)
	return resp.StatusCode(), body, nil
}
