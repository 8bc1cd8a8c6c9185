package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"paprd/internal/domain"

	"go.uber.org/zap"
)

// Client is a thin query facade over the external ledger node's JSON-RPC
// interface. It only reads: resolve a claim name to its signed publication
// record, or fetch a channel's public key. Transport failures surface as
// domain.ErrUpstreamUnavailable and are never retried here.
type Client struct {
	baseURL string
	httpDo  func(*http.Request) (*http.Response, error)
	log     *zap.Logger
}

const maxResponseBytes = 1 << 20

func NewClient(baseURL string, timeout time.Duration, log *zap.Logger) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("ledger base url is required")
	}
	if log == nil {
		log = zap.NewNop()
	}
	httpClient := &http.Client{Timeout: timeout}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpDo:  httpClient.Do,
		log:     log,
	}, nil
}

type rpcRequest struct {
	Method string         `json:"method"`
	Params map[string]any `json:"params"`
}

type resolveResponse struct {
	Result map[string]resolvedClaim `json:"result"`
	Error  *rpcError                `json:"error,omitempty"`
}

type rpcError struct {
	Message string `json:"message"`
}

type resolvedClaim struct {
	Error          *claimError    `json:"error,omitempty"`
	Name           string         `json:"name"`
	ClaimID        string         `json:"claim_id"`
	Value          claimValue     `json:"value"`
	SignatureValid bool           `json:"is_channel_signature_valid"`
	SigningChannel *claimChannel  `json:"signing_channel,omitempty"`
}

type claimError struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

type claimValue struct {
	Title     string `json:"title"`
	Author    string `json:"author"`
	PublicKey string `json:"public_key"`
}

type claimChannel struct {
	Name string `json:"name"`
}

// Resolve queries the node for one claim name. A name that does not resolve,
// or resolves to an error marker, is domain.ErrNotFound; an unreachable node
// is a hard upstream failure.
func (c *Client) Resolve(ctx context.Context, name string) (*domain.PublicationRecord, error) {
	claim, err := c.resolveRaw(ctx, name)
	if err != nil {
		return nil, err
	}
	record := &domain.PublicationRecord{
		ClaimName:      claim.Name,
		ClaimID:        claim.ClaimID,
		SignatureValid: claim.SignatureValid,
		Title:          claim.Value.Title,
		Author:         claim.Value.Author,
		PublicKey:      claim.Value.PublicKey,
	}
	if record.ClaimName == "" {
		record.ClaimName = name
	}
	if claim.SigningChannel != nil {
		record.SigningChannel = claim.SigningChannel.Name
	}
	return record, nil
}

// ChannelPublicKey resolves a channel claim and returns its public key.
// Used only during registration.
func (c *Client) ChannelPublicKey(ctx context.Context, channelName string) (string, error) {
	claim, err := c.resolveRaw(ctx, channelName)
	if err != nil {
		return "", err
	}
	if claim.Value.PublicKey == "" {
		return "", domain.ErrNotFound
	}
	return claim.Value.PublicKey, nil
}

func (c *Client) resolveRaw(ctx context.Context, name string) (*resolvedClaim, error) {
	body, err := json.Marshal(rpcRequest{
		Method: "resolve",
		Params: map[string]any{"urls": []string{name}},
	})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpDo(req)
	if err != nil {
		c.log.Warn("ledger resolve failed", zap.String("name", name), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()
	c.log.Debug("ledger resolve",
		zap.String("name", name),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", domain.ErrUpstreamUnavailable, resp.StatusCode)
	}
	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}
	var decoded resolveResponse
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return nil, fmt.Errorf("%w: malformed response", domain.ErrUpstreamUnavailable)
	}
	if decoded.Error != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrUpstreamUnavailable, decoded.Error.Message)
	}
	claim, ok := decoded.Result[name]
	if !ok || claim.Error != nil {
		return nil, domain.ErrNotFound
	}
	return &claim, nil
}
