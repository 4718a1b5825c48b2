package uploadController

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/webdeveloper-sudo/LeCheesePondicherry-sub000/configs"
	"github.com/webdeveloper-sudo/LeCheesePondicherry-sub000/responses"
)

var httpClient = &http.Client{Timeout: 30 * time.Second}

type uploadRequest struct {
	FileName string `json:"fileName" validate:"required"`
	MimeType string `json:"mimeType" validate:"required"`
	Data     string `json:"data" validate:"required"`
	FolderID string `json:"folderId"`
}

type proxyResponse struct {
	URL   string `json:"url"`
	Error string `json:"error"`
}

// UploadImage forwards a base64-encoded image to the upload proxy and
// returns the public URL the proxy assigns. The API server never stores
// file bytes itself.
func UploadImage(c *fiber.Ctx) error {
	var reqBody uploadRequest
	if err := c.BodyParser(&reqBody); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request format",
			Result:  nil,
		})
	}
	if reqBody.FileName == "" || reqBody.MimeType == "" || reqBody.Data == "" {
		return c.Status(fiber.StatusBadRequest).JSON(responses.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "File name, MIME type and data are required",
			Result:  nil,
		})
	}
	if reqBody.FolderID == "" {
		reqBody.FolderID = configs.EnvUploadFolderId()
	}

	payload, err := json.Marshal(fiber.Map{
		"fileName": reqBody.FileName,
		"mimeType": reqBody.MimeType,
		"data":     reqBody.Data,
		"folderId": reqBody.FolderID,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(responses.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Error preparing upload",
			Result:  nil,
		})
	}

	resp, err := httpClient.Post(configs.EnvUploadProxyURL(), "application/json", bytes.NewReader(payload))
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(responses.ApiResponse{
			Status:  fiber.StatusBadGateway,
			Message: "Upload service is unreachable",
			Result:  nil,
		})
	}
	defer resp.Body.Close()

	var proxyResp proxyResponse
	if err := json.NewDecoder(resp.Body).Decode(&proxyResp); err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(responses.ApiResponse{
			Status:  fiber.StatusBadGateway,
			Message: "Upload service returned an unreadable response",
			Result:  nil,
		})
	}
	if resp.StatusCode != http.StatusOK || proxyResp.URL == "" {
		msg := proxyResp.Error
		if msg == "" {
			msg = "Upload failed"
		}
		return c.Status(fiber.StatusBadGateway).JSON(responses.ApiResponse{
			Status:  fiber.StatusBadGateway,
			Message: msg,
			Result:  nil,
		})
	}

	return c.Status(fiber.StatusOK).JSON(responses.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Image uploaded successfully",
		Result:  &fiber.Map{"url": proxyResp.URL},
	})
}
