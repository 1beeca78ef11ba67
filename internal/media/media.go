// Package media uploads profile photos and event posters to Cloudinary.
package media

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Uploader talks to the Cloudinary REST upload endpoint.
type Uploader struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
	HTTP      *http.Client
}

// NewUploader creates an uploader. It is usable only when all three
// credentials are set; call Configured to check.
func NewUploader(cloudName, apiKey, apiSecret, folder string) *Uploader {
	return &Uploader{
		CloudName: cloudName,
		APIKey:    apiKey,
		APISecret: apiSecret,
		Folder:    folder,
		HTTP:      &http.Client{Timeout: 30 * time.Second},
	}
}

// Configured reports whether credentials are present.
func (u *Uploader) Configured() bool {
	return u.CloudName != "" && u.APIKey != "" && u.APISecret != ""
}

// Upload is the slice of the Cloudinary response we keep.
type Upload struct {
	PublicID  string `json:"public_id"`
	SecureURL string `json:"secure_url"`
	Bytes     int    `json:"bytes"`
}

// UploadBase64 uploads an image given as a data URL
// ("data:image/jpeg;base64,...") or raw base64.
func (u *Uploader) UploadBase64(ctx context.Context, data string) (*Upload, error) {
	params := map[string]string{
		"timestamp": strconv.FormatInt(time.Now().Unix(), 10),
		"api_key":   u.APIKey,
	}
	if u.Folder != "" {
		params["folder"] = u.Folder
	}
	params["signature"] = u.sign(params)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range params {
		_ = w.WriteField(k, v)
	}
	// Cloudinary accepts data URIs directly via the "file" param.
	_ = w.WriteField("file", data)
	w.Close()

	endpoint := fmt.Sprintf("https://api.cloudinary.com/v1_1/%s/image/upload", u.CloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return nil, fmt.Errorf("media: create request failed: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := u.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("media: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("media: upload failed (%d): %s", resp.StatusCode, string(body))
	}

	var out Upload
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("media: decode response failed: %w", err)
	}
	return &out, nil
}

// sign computes the request signature. api_key and file are excluded
// per the Cloudinary signing rules.
func (u *Uploader) sign(params map[string]string) string {
	exclude := map[string]bool{"api_key": true, "file": true, "resource_type": true}

	pairs := make([]string, 0, len(params))
	for k, v := range params {
		if !exclude[k] && v != "" {
			pairs = append(pairs, k+"="+v)
		}
	}
	sort.Strings(pairs)

	h := sha1.New()
	h.Write([]byte(strings.Join(pairs, "&") + u.APISecret))
	return fmt.Sprintf("%x", h.Sum(nil))
}
