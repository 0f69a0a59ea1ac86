package upload

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var ErrRejected = errors.New("upload rejected by server")

// Result describes one stored file.
type Result struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
}

type response struct {
	OK    bool     `json:"ok"`
	Files []Result `json:"files"`
}

// Client uploads files to the chat server's HTTP endpoint. Uploads are
// independent of the WebSocket session; a failed upload never affects
// connection state.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates an upload client for the server's base URL
// (e.g. http://host:port).
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: 5 * time.Minute},
	}
}

// Upload posts one file as the multipart "file" field. onProgress, when
// non-nil, receives the request body completion fraction (0.0 - 1.0).
func (c *Client) Upload(path string, onProgress func(float64)) ([]Result, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(content); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	total := int64(body.Len())
	reader := &progressReader{reader: &body, total: total, onRead: onProgress}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/upload", reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.ContentLength = total

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("upload failed: %s", resp.Status)
	}

	var decoded response
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, err
	}
	if !decoded.OK || len(decoded.Files) == 0 {
		return nil, ErrRejected
	}
	if onProgress != nil {
		onProgress(1.0)
	}

	// Returned URLs are server-relative; make them absolute so the chat
	// message works for every member.
	for i := range decoded.Files {
		if strings.HasPrefix(decoded.Files[i].URL, "/") {
			decoded.Files[i].URL = c.baseURL + decoded.Files[i].URL
		}
	}
	return decoded.Files, nil
}

// Announcement formats the chat message sent for one stored file.
func Announcement(r Result) string {
	return fmt.Sprintf("📎 %s: %s", r.Filename, r.URL)
}

// progressReader reports read progress as the request body is consumed.
type progressReader struct {
	reader io.Reader
	total  int64
	read   int64
	onRead func(float64)
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.reader.Read(b)
	p.read += int64(n)
	if p.onRead != nil && p.total > 0 {
		p.onRead(float64(p.read) / float64(p.total))
	}
	return n, err
}
