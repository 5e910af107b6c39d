package profile

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
)

const (
	contentType     = "application/json"
	contentEncoding = "gzip, deflate, br"
	defaultPerPage  = "100"
)

// StoreClient fetches profile documents from a profile-store service. The
// engine itself never talks to the store; callers use it to assemble the
// candidate pool.
type StoreClient struct {
	token      string
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
	BaseURL    string
}

type pageResponse struct {
	Items   []map[string]any
	Found   int
	Pages   int
	Page    int
	PerPage int `json:"per_page"`
}

// NewStoreClient creates a profile-store client with bearer authentication.
func NewStoreClient(baseURL, token string, logger *zap.Logger) *StoreClient {
	return &StoreClient{
		token:   token,
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger:    logger,
		UserAgent: "careerverse/careermatch",
	}
}

// GetProfile fetches a single profile document by id.
func (c *StoreClient) GetProfile(id string) (*Profile, error) {
	if id == "" {
		return nil, fmt.Errorf("profile id is required")
	}

	var raw map[string]any
	if err := c.getJSON(fmt.Sprintf("%s/profiles/%s", c.BaseURL, id), nil, &raw); err != nil {
		return nil, err
	}

	return FromMap(raw)
}

// GetProfiles fetches all profiles matching the query, following pagination.
func (c *StoreClient) GetProfiles(q url.Values) (*Profiles, error) {
	items, err := c.getItems(fmt.Sprintf("%s/profiles", c.BaseURL), q)
	if err != nil {
		return nil, err
	}

	var profiles []*Profile
	if err := mapstructure.Decode(items, &profiles); err != nil {
		return nil, fmt.Errorf("decode profile documents: %w", err)
	}

	return &Profiles{Items: profiles}, nil
}

// GetMentors fetches all mentorship-available profiles.
func (c *StoreClient) GetMentors() (*Profiles, error) {
	q := url.Values{}
	q.Set("mentorship_available", "true")

	return c.GetProfiles(q)
}

func (c *StoreClient) getItems(rawURL string, q url.Values) ([]map[string]any, error) {
	if q == nil {
		q = url.Values{}
	}
	if q.Get("per_page") == "" {
		q.Set("per_page", defaultPerPage)
	}

	var items []map[string]any

	page := 0
	for {
		q.Set("page", strconv.Itoa(page))

		var response pageResponse
		if err := c.getJSON(rawURL, q, &response); err != nil {
			return nil, err
		}

		items = append(items, response.Items...)

		c.logger.Debug("got page from profile store",
			zap.Int("page", response.Page),
			zap.Int("pages", response.Pages),
			zap.Int("items", len(response.Items)),
		)

		if response.Page >= response.Pages-1 {
			break
		}
		page = response.Page + 1
	}

	return items, nil
}

func (c *StoreClient) getJSON(rawURL string, q url.Values, target any) error {
	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}

	c.setHeaders(req)
	if q != nil {
		req.URL.RawQuery = q.Encode()
	}

	c.logger.Debug("make request", zap.String("url", req.URL.String()))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gzipReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return err
		}
		defer gzipReader.Close()
		reader = gzipReader
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bad status: %s", resp.Status)
	}

	if target == nil {
		return nil
	}

	return json.Unmarshal(data, target)
}

func (c *StoreClient) setHeaders(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept-Encoding", contentEncoding)
}
