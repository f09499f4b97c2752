package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// UploadDocument posts one KYC image as multipart form data. kind is one of
// front, back, selfie.
func (c *Client) UploadDocument(ctx context.Context, kind, fileName string, file io.Reader) (*Document, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("file", fileName)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	if err := mw.WriteField("kind", kind); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/documents/upload", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var resp struct {
		Document Document `json:"document"`
	}
	if err := c.send(req, &resp); err != nil {
		return nil, err
	}
	return &resp.Document, nil
}

func (c *Client) Documents(ctx context.Context) ([]Document, error) {
	var docs []Document
	if err := c.do(ctx, "GET", "/api/documents", nil, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (c *Client) SubmitKYC(ctx context.Context, sub KYCSubmission) error {
	return c.do(ctx, "POST", "/api/kyc/submit", sub, nil)
}
