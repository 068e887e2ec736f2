// Package uploader stores pet images in an external object store. Upload
// failures and missing credentials are soft: pet creation proceeds with a
// nil image URL.
package uploader

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const uploadFolder = "lostpets"

// ImageUploader uploads a data-URI encoded image and returns its public URL.
// An empty URL with nil error means "no image" and must not block the caller.
type ImageUploader interface {
	Upload(ctx context.Context, dataURI string) (string, error)
}

// Disabled is the no-op uploader used when no Cloudinary credentials are
// configured.
type Disabled struct{}

func (Disabled) Upload(context.Context, string) (string, error) { return "", nil }

// Cloudinary uploads images through the Cloudinary REST API using a signed
// request. Only the secure URL of the stored image is retained.
type Cloudinary struct {
	CloudName string
	APIKey    string
	APISecret string
	Client    *http.Client
}

func NewCloudinary(cloudName, apiKey, apiSecret string) *Cloudinary {
	return &Cloudinary{
		CloudName: cloudName,
		APIKey:    apiKey,
		APISecret: apiSecret,
		Client:    &http.Client{Timeout: 15 * time.Second},
	}
}

// Upload posts the data URI to the image upload endpoint. Cloudinary signs
// requests with SHA-1 over the sorted parameter string plus the API secret.
func (c *Cloudinary) Upload(ctx context.Context, dataURI string) (string, error) {
	if dataURI == "" {
		return "", nil
	}

	ts := strconv.FormatInt(time.Now().Unix(), 10)
	toSign := "folder=" + uploadFolder + "&timestamp=" + ts + c.APISecret
	sum := sha1.Sum([]byte(toSign))

	form := url.Values{}
	form.Set("file", dataURI)
	form.Set("folder", uploadFolder)
	form.Set("timestamp", ts)
	form.Set("api_key", c.APIKey)
	form.Set("signature", hex.EncodeToString(sum[:]))

	endpoint := fmt.Sprintf("https://api.cloudinary.com/v1_1/%s/image/upload", c.CloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("cloudinary: upload returned %d: %s", resp.StatusCode, body)
	}

	var out struct {
		SecureURL string `json:"secure_url"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return "", err
	}
	return out.SecureURL, nil
}
