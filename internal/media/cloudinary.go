package media

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/MKhiriev/go-car-market/internal/config"
	"github.com/MKhiriev/go-car-market/internal/logger"
	"github.com/MKhiriev/go-car-market/internal/utils"
	"github.com/go-resty/resty/v2"
)

// cloudinaryClient is the Cloudinary-style implementation of [Client].
// Upload and destroy calls are authenticated per request with a SHA-1
// signature over the sorted form parameters and the API secret.
type cloudinaryClient struct {
	client *utils.HTTPClient

	cloudName string
	apiKey    string
	apiSecret string

	logger *logger.Logger
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
}

type destroyResponse struct {
	Result string `json:"result"`
}

// NewCloudinaryClient constructs a [Client] talking to the media host
// described by cfg. The base URL covers everything up to the tenant
// segment (e.g. "https://api.cloudinary.com/v1_1").
func NewCloudinaryClient(cfg config.Media, log *logger.Logger) Client {
	client := utils.NewHTTPClient()
	client.
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.RequestTimeout)

	return &cloudinaryClient{
		client:    client,
		cloudName: cfg.CloudName,
		apiKey:    cfg.APIKey,
		apiSecret: cfg.APISecret,
		logger:    log,
	}
}

// Upload implements [Client]. Staged files are deleted from local disk
// unconditionally, one by one, as soon as their transfer attempt finishes.
func (c *cloudinaryClient) Upload(ctx context.Context, filePaths []string) ([]string, error) {
	log := logger.FromContext(ctx)

	urls := make([]string, 0, len(filePaths))
	var lastErr error

	for _, filePath := range filePaths {
		imageURL, err := c.uploadOne(ctx, filePath)

		// staged files never outlive the request
		if removeErr := os.Remove(filePath); removeErr != nil && !errors.Is(removeErr, os.ErrNotExist) {
			log.Warn().Err(removeErr).Str("file", filePath).Msg("failed to remove staged upload file")
		}

		if err != nil {
			log.Err(err).Str("func", "cloudinaryClient.Upload").Str("file", filePath).Msg("image upload failed")
			lastErr = err
			continue
		}

		urls = append(urls, imageURL)
	}

	if len(urls) == 0 && len(filePaths) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrUploadFailed, lastErr)
	}

	return urls, nil
}

func (c *cloudinaryClient) uploadOne(ctx context.Context, filePath string) (string, error) {
	timestamp := strconv.FormatInt(time.Now().Unix(), 10)

	resp, err := c.client.R().
		SetContext(ctx).
		SetFile("file", filePath).
		SetFormData(map[string]string{
			"api_key":   c.apiKey,
			"timestamp": timestamp,
			"signature": c.sign(map[string]string{"timestamp": timestamp}),
		}).
		Post(fmt.Sprintf("/%s/image/upload", c.cloudName))
	if err != nil {
		return "", fmt.Errorf("upload request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return "", err
	}

	var parsed uploadResponse
	if err = json.Unmarshal(resp.Body(), &parsed); err != nil {
		return "", fmt.Errorf("decode upload response: %w", err)
	}
	if parsed.SecureURL == "" {
		return "", errors.New("upload response has no secure_url")
	}

	return parsed.SecureURL, nil
}

// Remove implements [Client]. Every URL is attempted even when earlier
// ones fail.
func (c *cloudinaryClient) Remove(ctx context.Context, imageURLs []string) error {
	log := logger.FromContext(ctx)

	var errs []error

	for _, imageURL := range imageURLs {
		publicID := PublicIDFromURL(imageURL)
		if publicID == "" {
			log.Warn().Str("url", imageURL).Msg("cannot derive public id from image url, skipping")
			continue
		}

		if err := c.destroyOne(ctx, publicID); err != nil {
			log.Err(err).Str("func", "cloudinaryClient.Remove").Str("public_id", publicID).Msg("image removal failed")
			errs = append(errs, fmt.Errorf("%w: %s: %w", ErrRemoveFailed, publicID, err))
		}
	}

	return errors.Join(errs...)
}

func (c *cloudinaryClient) destroyOne(ctx context.Context, publicID string) error {
	timestamp := strconv.FormatInt(time.Now().Unix(), 10)

	resp, err := c.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"public_id": publicID,
			"api_key":   c.apiKey,
			"timestamp": timestamp,
			"signature": c.sign(map[string]string{"public_id": publicID, "timestamp": timestamp}),
		}).
		Post(fmt.Sprintf("/%s/image/destroy", c.cloudName))
	if err != nil {
		return fmt.Errorf("destroy request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return err
	}

	var parsed destroyResponse
	if err = json.Unmarshal(resp.Body(), &parsed); err != nil {
		return fmt.Errorf("decode destroy response: %w", err)
	}
	// an image already gone is as good as removed
	if parsed.Result != "ok" && parsed.Result != "not found" {
		return fmt.Errorf("media host result %q", parsed.Result)
	}

	return nil
}

// sign computes the per-request signature: the SHA-1 hex digest of the
// alphabetically sorted form parameters concatenated with the API secret.
func (c *cloudinaryClient) sign(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+"="+params[key])
	}

	sum := sha1.Sum([]byte(strings.Join(parts, "&") + c.apiSecret))
	return hex.EncodeToString(sum[:])
}

// PublicIDFromURL extracts the media host public identifier from a public
// image URL: the last path segment without its file extension.
func PublicIDFromURL(imageURL string) string {
	segment := path.Base(imageURL)
	if segment == "." || segment == "/" {
		return ""
	}
	return strings.TrimSuffix(segment, path.Ext(segment))
}

func mapHTTPError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	body := strings.TrimSpace(string(resp.Body()))
	if body == "" {
		body = http.StatusText(resp.StatusCode())
	}

	return fmt.Errorf("http %d: %s", resp.StatusCode(), body)
}
