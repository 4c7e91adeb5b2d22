package mediahost

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mfolden/portfolio-backend/errs"
)

// CloudinaryHost uploads through Cloudinary's unsigned upload endpoint.
// An unsigned preset on the account authorizes the uploads, so no API
// secret is needed here.
type CloudinaryHost struct {
	cloudName  string
	preset     string
	httpClient *http.Client
	logger     zerolog.Logger
}

func NewCloudinary(cloudName, preset string) (*CloudinaryHost, error) {
	if cloudName == "" || preset == "" {
		return nil, errs.NewUploadConfigError("CLOUDINARY_CLOUD_NAME, CLOUDINARY_UPLOAD_PRESET")
	}
	return &CloudinaryHost{
		cloudName:  cloudName,
		preset:     preset,
		httpClient: &http.Client{Timeout: 120 * time.Second},
		logger:     log.With().Str("handlerName", "cloudinaryMediaHost").Logger(),
	}, nil
}

type cloudinaryUploadResponse struct {
	SecureURL string `json:"secure_url"`
}

type cloudinaryErrorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (h *CloudinaryHost) Upload(ctx context.Context, file io.Reader, filename string, kind Kind) (string, error) {
	endpoint := fmt.Sprintf("https://api.cloudinary.com/v1_1/%s/%s/upload", h.cloudName, kind)

	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)
	go func() {
		part, err := writer.CreateFormFile("file", filename)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, file); err != nil {
			pw.CloseWithError(err)
			return
		}
		if err := writer.WriteField("upload_preset", h.preset); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(writer.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, pr)
	if err != nil {
		return "", errs.NewUploadError(filename, err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := h.httpClient.Do(req)
	if err != nil {
		h.logger.Error().Err(err).Str("file", filename).Msg("upload request failed")
		return "", errs.NewUploadError(filename, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errs.NewUploadError(filename, err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp cloudinaryErrorResponse
		if json.Unmarshal(body, &errResp) == nil && errResp.Error.Message != "" {
			return "", errs.NewUploadError(filename, fmt.Errorf("media host: %s", errResp.Error.Message))
		}
		return "", errs.NewUploadError(filename, fmt.Errorf("media host returned status %d", resp.StatusCode))
	}

	var uploadResp cloudinaryUploadResponse
	if err := json.Unmarshal(body, &uploadResp); err != nil {
		return "", errs.NewUploadError(filename, err)
	}
	if uploadResp.SecureURL == "" {
		return "", errs.NewUploadError(filename, fmt.Errorf("media host returned no URL"))
	}
	return uploadResp.SecureURL, nil
}
