// internal/adapter/imagekit/client.go
package imagekit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path"
	"strings"
	"time"

	"github.com/GoArmGo/SocialApp/internal/config"
	"github.com/GoArmGo/SocialApp/internal/domain"
)

// Client загружает изображения постов в ImageKit и удаляет их оттуда.
// Реализует ports.FileStorage: ключом файла служит fileId из ответа ImageKit.
type Client struct {
	httpClient *http.Client
	privateKey string
	uploadURL  string
	apiURL     string
	folder     string
	logger     *slog.Logger
}

// NewClient создает новый экземпляр Client.
func NewClient(cfg *config.Config, logger *slog.Logger) (*Client, error) {
	if cfg.ImageKit.PrivateKey == "" {
		return nil, fmt.Errorf("IMAGEKIT_PRIVATE_KEY must be set when MEDIA_PROVIDER=%s", config.MediaProviderImageKit)
	}

	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		privateKey: cfg.ImageKit.PrivateKey,
		uploadURL:  cfg.ImageKit.UploadURL,
		apiURL:     strings.TrimRight(cfg.ImageKit.APIURL, "/"),
		folder:     cfg.ImageKit.Folder,
		logger:     logger,
	}, nil
}

// UploadFile отправляет файл в ImageKit multipart-запросом.
// objectKey используется как имя файла.
func (c *Client) UploadFile(ctx context.Context, objectKey string, fileContent io.Reader, contentType string) (domain.StoredFile, error) {
	start := time.Now()

	var body bytes.Buffer
	form := multipart.NewWriter(&body)

	fileName := path.Base(objectKey)
	partHeader := make(textproto.MIMEHeader)
	partHeader.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, fileName))
	if contentType != "" {
		partHeader.Set("Content-Type", contentType)
	}
	part, err := form.CreatePart(partHeader)
	if err != nil {
		return domain.StoredFile{}, fmt.Errorf("create imagekit file part: %w", err)
	}
	if _, err := io.Copy(part, fileContent); err != nil {
		return domain.StoredFile{}, fmt.Errorf("copy file into imagekit request: %w", err)
	}

	fields := map[string]string{
		"fileName":          fileName,
		"useUniqueFileName": "true",
	}
	if c.folder != "" {
		fields["folder"] = c.folder
	}
	for name, value := range fields {
		if err := form.WriteField(name, value); err != nil {
			return domain.StoredFile{}, fmt.Errorf("write imagekit field %s: %w", name, err)
		}
	}
	if err := form.Close(); err != nil {
		return domain.StoredFile{}, fmt.Errorf("close imagekit multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL, &body)
	if err != nil {
		return domain.StoredFile{}, fmt.Errorf("create imagekit upload request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.SetBasicAuth(c.privateKey, "")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.StoredFile{}, fmt.Errorf("imagekit upload request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.StoredFile{}, c.apiError("upload", resp)
	}

	var uploaded UploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&uploaded); err != nil {
		return domain.StoredFile{}, fmt.Errorf("decode imagekit upload response: %w", err)
	}
	if uploaded.FileID == "" || uploaded.URL == "" {
		return domain.StoredFile{}, fmt.Errorf("imagekit upload response is missing fileId or url")
	}

	c.logger.Info("file uploaded to ImageKit",
		"file_id", uploaded.FileID,
		"name", uploaded.Name,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return domain.StoredFile{Key: uploaded.FileID, URL: uploaded.URL}, nil
}

// DeleteFile удаляет файл по его fileId. Уже удаленный файл не считается ошибкой.
func (c *Client) DeleteFile(ctx context.Context, fileID string) error {
	endpoint := fmt.Sprintf("%s/files/%s", c.apiURL, fileID)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create imagekit delete request: %w", err)
	}
	req.SetBasicAuth(c.privateKey, "")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("imagekit delete request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNoContent, http.StatusOK:
		c.logger.Info("file deleted from ImageKit", "file_id", fileID)
		return nil
	case http.StatusNotFound:
		c.logger.Warn("file already absent in ImageKit", "file_id", fileID)
		return nil
	default:
		return c.apiError("delete", resp)
	}
}

func (c *Client) apiError(op string, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var apiErr ErrorResponse
	if err := json.Unmarshal(raw, &apiErr); err == nil && apiErr.Message != "" {
		return fmt.Errorf("imagekit %s returned status %d: %s", op, resp.StatusCode, apiErr.Message)
	}
	return fmt.Errorf("imagekit %s returned status %d: %s", op, resp.StatusCode, string(raw))
}
