// Package render holds the session side of preview rendering: the credential a
// user supplied and the call into whichever image backend the server runs with.
package render

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/felixbrock/logoassist/internal/domain"
	"golang.org/x/time/rate"
)

// Backend is a remote image-generation service.
type Backend interface {
	Generate(ctx context.Context, apiKey string, prompt Prompt) (*domain.Image, error)
}

// Client renders concepts for one session. It never retries and never caches.
type Client struct {
	mu         sync.RWMutex
	credential string
	backend    Backend
	limiter    *rate.Limiter
}

// NewClient returns an unconfigured client. limiter may be shared between
// sessions; nil disables the local quota check.
func NewClient(backend Backend, limiter *rate.Limiter) *Client {
	return &Client{backend: backend, limiter: limiter}
}

func (c *Client) IsConfigured() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.credential != ""
}

func (c *Client) SetCredential(secret string) error {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return domain.ErrEmptyCredential
	}

	c.mu.Lock()
	c.credential = secret
	c.mu.Unlock()

	return nil
}

func (c *Client) ClearCredential() {
	c.mu.Lock()
	c.credential = ""
	c.mu.Unlock()
}

func (c *Client) Render(ctx context.Context, concept domain.Concept) (*domain.Image, error) {
	c.mu.RLock()
	credential := c.credential
	c.mu.RUnlock()

	if credential == "" {
		return nil, domain.ErrUnauthorized
	}

	if c.limiter != nil && !c.limiter.Allow() {
		return nil, fmt.Errorf("%w: local render quota exhausted", domain.ErrRateLimited)
	}

	img, err := c.backend.Generate(ctx, credential, BuildPrompt(concept))
	if err != nil {
		return nil, classify(ctx, err)
	}

	return img, nil
}

// classify keeps backend errors inside the Unauthorized/RateLimited/Unavailable
// taxonomy.
func classify(ctx context.Context, err error) error {
	if isKnown(err) {
		return err
	}
	if ctx.Err() != nil {
		return fmt.Errorf("%w: %w", domain.ErrUnavailable, ctx.Err())
	}
	return fmt.Errorf("%w: %w", domain.ErrUnavailable, err)
}
