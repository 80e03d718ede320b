// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package paperless is a client for the paperless-ngx REST API, covering the
// three endpoints the migration needs: the health probe, the tag list, and
// document ingestion.
package paperless

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// dateLayout is the calendar-date format the ingestion endpoint expects.
const dateLayout = "2006-01-02"

// ServerInfo holds the version headers returned by the health probe.
type ServerInfo struct {
	Version    string
	APIVersion string
}

// Client talks to a paperless-ngx instance. Authentication is carried by the
// injected HTTP client's transport.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a Client for the instance at baseURL.
func New(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// Ping probes GET /api/ and returns the server and API versions from the
// response headers. Any non-success status means the instance is unusable.
func (c *Client) Ping() (ServerInfo, error) {
	resp, err := c.http.Get(c.baseURL + "/api/")
	if err != nil {
		return ServerInfo{}, fmt.Errorf("probing %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return ServerInfo{}, fmt.Errorf("paperless-ngx at %s returned HTTP %d", c.baseURL, resp.StatusCode)
	}
	return ServerInfo{
		Version:    resp.Header.Get("X-Version"),
		APIVersion: resp.Header.Get("X-Api-Version"),
	}, nil
}

// tagListResponse mirrors the paginated tag list body. Only the first page
// is read; archives small enough to migrate this way fit in one page.
type tagListResponse struct {
	Results []struct {
		ID   int    `json:"id"`
		Slug string `json:"slug"`
	} `json:"results"`
}

// Tags fetches GET /api/tags/ and returns a mapping from tag slug to tag ID.
func (c *Client) Tags() (map[string]int, error) {
	resp, err := c.http.Get(c.baseURL + "/api/tags/")
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tag list returned HTTP %d", resp.StatusCode)
	}

	var body tagListResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("parsing tag list: %w", err)
	}

	tags := make(map[string]int, len(body.Results))
	for _, t := range body.Results {
		tags[t.Slug] = t.ID
	}
	return tags, nil
}

// Upload submits the PDF at path to POST /api/documents/post_document/ as a
// multipart form with the creation date and resolved tag IDs. A non-success
// response is an error; the server consumes uploads synchronously enough
// that failures surface here.
func (c *Client) Upload(path string, created time.Time, tagIDs []int) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening export %s: %w", path, err)
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	if err := mw.WriteField("created", created.Format(dateLayout)); err != nil {
		return fmt.Errorf("building upload form: %w", err)
	}
	for _, id := range tagIDs {
		if err := mw.WriteField("tags", strconv.Itoa(id)); err != nil {
			return fmt.Errorf("building upload form: %w", err)
		}
	}

	part, err := mw.CreateFormFile("document", filepath.Base(path))
	if err != nil {
		return fmt.Errorf("building upload form: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("reading export %s: %w", path, err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("building upload form: %w", err)
	}

	url := c.baseURL + "/api/documents/post_document/"
	resp, err := c.http.Post(url, mw.FormDataContentType(), &buf)
	if err != nil {
		return fmt.Errorf("uploading %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("uploading %s: server returned HTTP %d", path, resp.StatusCode)
	}
	return nil
}

// ResolveTags maps document labels onto tag IDs by exact, lowercased slug
// match. Labels without a matching tag are dropped; the migration never
// creates tags on the server.
func ResolveTags(tags map[string]int, labels []string) []int {
	var ids []int
	for _, label := range labels {
		if id, ok := tags[strings.ToLower(label)]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}
