package storage

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ImageFetcher downloads raw image bytes from a URL. Decoding is the
// classifier's concern.
type ImageFetcher interface {
	FetchImage(ctx context.Context, imageURL string) ([]byte, error)
}

// HTTPImageFetcher implements ImageFetcher with connection pooling and
// retry on transient errors.
type HTTPImageFetcher struct {
	client   *http.Client
	maxBytes int64
}

// NewHTTPImageFetcher creates an HTTP image fetcher. maxBytes caps the
// downloaded body size.
func NewHTTPImageFetcher(maxBytes int64) ImageFetcher {
	transport := &http.Transport{
		// Connection pooling sized for single image downloads
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     30 * time.Second,

		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,

		DisableCompression:     false,
		MaxResponseHeaderBytes: 4096,

		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: true,
		},
	}

	return &HTTPImageFetcher{
		client: &http.Client{
			Transport: transport,
			Timeout:   30 * time.Second,

			// Prevent redirects to avoid unexpected behavior
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("too many redirects (limit: 3)")
				}
				return nil
			},
		},
		maxBytes: maxBytes,
	}
}

func (h *HTTPImageFetcher) FetchImage(ctx context.Context, imageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}

	req.Header.Set("Accept", "image/jpeg, image/png, image/webp, image/gif, */*")
	req.Header.Set("User-Agent", "Go-Crop-Advisor/1.0")
	req.Header.Set("Accept-Encoding", "gzip, deflate")

	// Retry logic (3 attempts) - only retry on transient errors
	var resp *http.Response
	var lastErr error

	for attempt := 0; attempt < 3; attempt++ {
		resp, err = h.client.Do(req)

		if err != nil {
			lastErr = err
		}

		if err == nil && resp != nil && resp.StatusCode == http.StatusOK {
			break
		}

		if err == nil && resp != nil {
			func() {
				defer resp.Body.Close()

				// 4xx client errors are non-retryable
				if resp.StatusCode >= 400 && resp.StatusCode < 500 {
					lastErr = fmt.Errorf("client error: status code %d", resp.StatusCode)
					return
				}
				if resp.StatusCode >= 500 {
					lastErr = fmt.Errorf("server error: status code %d", resp.StatusCode)
				}
			}()

			if resp.StatusCode >= 400 && resp.StatusCode < 500 {
				resp = nil
				break
			}
		}

		// Sleep before next retry (only for retryable cases and not on last attempt)
		if attempt < 2 && (err != nil || (resp != nil && resp.StatusCode >= 500)) {
			time.Sleep(time.Duration(attempt+1) * time.Second)
		}

		if resp != nil && (err != nil || resp.StatusCode != http.StatusOK) {
			resp = nil
		}
	}

	if resp == nil || (err == nil && resp.StatusCode != http.StatusOK) {
		if lastErr != nil {
			return nil, fmt.Errorf("failed to fetch image after 3 attempts: %w", lastErr)
		}
		return nil, fmt.Errorf("failed to fetch image after 3 attempts: unknown error")
	}

	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, h.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image body: %w", err)
	}
	if int64(len(data)) > h.maxBytes {
		return nil, fmt.Errorf("image exceeds maximum size of %d bytes", h.maxBytes)
	}
	return data, nil
}
