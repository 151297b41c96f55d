package services

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"journal-review-api/config"
)

// UploadResult identifies a stored object: the provider public id used for
// later URL derivation and deletion, and the permanent content URL.
type UploadResult struct {
	PublicID string
	URL      string
}

// DeliveryOptions parameterizes derived URLs. Every read endpoint funnels
// through one derivation so size/expiry variants stay consistent.
type DeliveryOptions struct {
	// Width/Height/Page select a page-render transformation (previews).
	Width  int
	Height int
	Page   int
	// Format overrides the delivered format, e.g. "jpg" for previews.
	Format string
	// Expiry > 0 produces a signed URL valid for that window.
	Expiry time.Duration
	// ForceDownload adds the attachment flag so browsers save instead of
	// render.
	ForceDownload bool
}

// FileStorage is the object-storage collaborator. Manuscript files are
// uploaded as private assets; reads go through derived (optionally signed)
// URLs.
type FileStorage interface {
	Upload(ctx context.Context, data []byte, folder, format string) (*UploadResult, error)
	DeliveryURL(publicID string, opts DeliveryOptions) string
	Delete(ctx context.Context, publicID string) error
}

// CloudStorage talks to the provider's REST API with SHA-1 request signing.
type CloudStorage struct {
	cloudName    string
	apiKey       string
	apiSecret    string
	apiBase      string
	deliveryBase string
	client       *http.Client
	now          func() time.Time
}

// NewCloudStorage builds the production storage client. The HTTP timeout
// bounds the upload round trip; a submission fails rather than hangs when
// the provider is down.
func NewCloudStorage(cfg *config.Config) *CloudStorage {
	return &CloudStorage{
		cloudName:    cfg.StorageCloudName,
		apiKey:       cfg.StorageAPIKey,
		apiSecret:    cfg.StorageAPISecret,
		apiBase:      cfg.StorageUploadURL,
		deliveryBase: "https://res.cloudinary.com",
		client:       &http.Client{Timeout: cfg.StorageTimeout},
		now:          time.Now,
	}
}

type uploadResponse struct {
	PublicID  string `json:"public_id"`
	SecureURL string `json:"secure_url"`
	Error     struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload stores data as a private raw asset under folder. The generated
// public id is unique per upload; the original filename is never used.
func (s *CloudStorage) Upload(ctx context.Context, data []byte, folder, format string) (*UploadResult, error) {
	params := map[string]string{
		"folder":    folder,
		"format":    format,
		"public_id": uuid.NewString(),
		"timestamp": strconv.FormatInt(s.now().Unix(), 10),
		"type":      "private",
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for key, value := range params {
		if err := writer.WriteField(key, value); err != nil {
			return nil, err
		}
	}
	if err := writer.WriteField("api_key", s.apiKey); err != nil {
		return nil, err
	}
	if err := writer.WriteField("signature", s.signParams(params)); err != nil {
		return nil, err
	}
	part, err := writer.CreateFormFile("file", params["public_id"]+"."+format)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(data); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/v1_1/%s/raw/upload", s.apiBase, s.cloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var result uploadResponse
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, fmt.Errorf("storage upload: unexpected response: %w", err)
	}
	if resp.StatusCode != http.StatusOK || result.PublicID == "" {
		if result.Error.Message != "" {
			return nil, fmt.Errorf("storage upload failed: %s", result.Error.Message)
		}
		return nil, fmt.Errorf("storage upload failed: status %d", resp.StatusCode)
	}

	return &UploadResult{PublicID: result.PublicID, URL: result.SecureURL}, nil
}

// DeliveryURL derives an access URL for a stored asset. The derivation is
// pure: nothing is stored and the same options and clock yield the same
// URL.
func (s *CloudStorage) DeliveryURL(publicID string, opts DeliveryOptions) string {
	resourceType := "raw"
	if opts.Format != "" {
		resourceType = "image"
	}

	var transforms []string
	if opts.Page > 0 {
		transforms = append(transforms, fmt.Sprintf("pg_%d", opts.Page))
	}
	if opts.Width > 0 {
		transforms = append(transforms, fmt.Sprintf("w_%d", opts.Width))
	}
	if opts.Height > 0 {
		transforms = append(transforms, fmt.Sprintf("h_%d", opts.Height))
	}
	if opts.Width > 0 || opts.Height > 0 {
		transforms = append(transforms, "c_fill", "q_auto")
	}
	if opts.ForceDownload {
		transforms = append(transforms, "fl_attachment")
	}

	segments := []string{s.cloudName, resourceType, "private"}
	if len(transforms) > 0 {
		segments = append(segments, strings.Join(transforms, ","))
	}
	name := publicID
	if opts.Format != "" {
		name += "." + opts.Format
	}
	segments = append(segments, name)
	path := "/" + strings.Join(segments, "/")

	if opts.Expiry <= 0 {
		return s.deliveryBase + path
	}

	expiresAt := s.now().Add(opts.Expiry).Unix()
	sig := s.signString(fmt.Sprintf("%s%d", path, expiresAt))
	query := url.Values{}
	query.Set("expires_at", strconv.FormatInt(expiresAt, 10))
	query.Set("signature", sig)
	return s.deliveryBase + path + "?" + query.Encode()
}

// Delete removes a stored asset. Callers treat failures as best-effort.
func (s *CloudStorage) Delete(ctx context.Context, publicID string) error {
	params := map[string]string{
		"public_id": publicID,
		"timestamp": strconv.FormatInt(s.now().Unix(), 10),
	}

	form := url.Values{}
	for key, value := range params {
		form.Set(key, value)
	}
	form.Set("api_key", s.apiKey)
	form.Set("signature", s.signParams(params))

	endpoint := fmt.Sprintf("%s/v1_1/%s/raw/destroy", s.apiBase, s.cloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("storage delete failed: status %d", resp.StatusCode)
	}
	return nil
}

// signParams signs API request parameters: keys sorted, joined as
// key=value pairs, hashed with the API secret appended.
func (s *CloudStorage) signParams(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, key+"="+params[key])
	}
	return s.signString(strings.Join(pairs, "&"))
}

func (s *CloudStorage) signString(payload string) string {
	sum := sha1.Sum([]byte(payload + s.apiSecret))
	return hex.EncodeToString(sum[:])
}
