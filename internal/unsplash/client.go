// Package unsplash talks to the Unsplash photo API and maps its payloads onto local photos.
package unsplash

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/anonto42/fotofolio/backend/internal/apperrors"
	"github.com/anonto42/fotofolio/backend/internal/models"
)

const DefaultBaseURL = "https://api.unsplash.com"

var idPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidID reports whether id may be forwarded to the provider
func ValidID(id string) bool {
	return idPattern.MatchString(id)
}

// Provider is the external photo source
type Provider interface {
	Search(ctx context.Context, query string, page, perPage int) (*SearchResult, error)
	FetchByID(ctx context.Context, id string) (*Photo, error)
}

// Photo is the subset of the Unsplash photo payload the service uses
type Photo struct {
	ID             string `json:"id"`
	Slug           string `json:"slug"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
	Color          string `json:"color"`
	Description    string `json:"description"`
	AltDescription string `json:"alt_description"`
	URLs           struct {
		Regular string `json:"regular"`
		Thumb   string `json:"thumb"`
	} `json:"urls"`
	Links struct {
		Download string `json:"download"`
	} `json:"links"`
	User struct {
		Name  string `json:"name"`
		Links struct {
			HTML string `json:"html"`
		} `json:"links"`
		ProfileImage struct {
			Small string `json:"small"`
		} `json:"profile_image"`
	} `json:"user"`
	Tags []struct {
		Title string `json:"title"`
	} `json:"tags"`
}

// SearchResult is one page of provider search results
type SearchResult struct {
	Total      int     `json:"total"`
	TotalPages int     `json:"total_pages"`
	Results    []Photo `json:"results"`
}

// ToModel maps the provider payload onto an unsaved local photo
func (p *Photo) ToModel() *models.Photo {
	description := p.Description
	if description == "" {
		description = p.AltDescription
	}
	tags := make([]string, 0, len(p.Tags))
	for _, t := range p.Tags {
		tags = append(tags, t.Title)
	}
	return &models.Photo{
		SourceType:        models.SourceUnsplash,
		UnsplashID:        p.ID,
		Slug:              p.Slug,
		ImageURL:          p.URLs.Regular,
		ThumbURL:          p.URLs.Thumb,
		DownloadURL:       p.Links.Download,
		Photographer:      p.User.Name,
		PhotographerURL:   p.User.Links.HTML,
		PhotographerImage: p.User.ProfileImage.Small,
		Description:       description,
		Tags:              tags,
		Width:             p.Width,
		Height:            p.Height,
		Color:             p.Color,
	}
}

// Client is an HTTP Provider for api.unsplash.com
type Client struct {
	baseURL    string
	accessKey  string
	httpClient *http.Client
}

// NewClient creates a Client; an empty baseURL selects the public API
func NewClient(baseURL, accessKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		accessKey:  accessKey,
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

func (c *Client) Search(ctx context.Context, query string, page, perPage int) (*SearchResult, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(perPage))

	var out SearchResult
	if err := c.get(ctx, "/search/photos?"+params.Encode(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) FetchByID(ctx context.Context, id string) (*Photo, error) {
	if !ValidID(id) {
		return nil, apperrors.InvalidInput("Invalid Unsplash photo ID format")
	}
	var out Photo
	if err := c.get(ctx, "/photos/"+id, &out); err != nil {
		return nil, err
	}
	if out.ID == "" {
		return nil, apperrors.UpstreamFailure(nil, "Empty response from Unsplash")
	}
	return &out, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return apperrors.Internal(err, "build unsplash request")
	}
	req.Header.Set("Authorization", "Client-ID "+c.accessKey)
	req.Header.Set("Accept-Version", "v1")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return apperrors.UpstreamFailure(err, "Unsplash request timed out")
		}
		return apperrors.UpstreamFailure(err, "Error contacting Unsplash API")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return apperrors.NotFound("Photo not found on Unsplash")
	case resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusTooManyRequests:
		return apperrors.RateLimited("Unsplash API rate limit exceeded")
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return apperrors.UpstreamFailure(fmt.Errorf("unsplash status %d", resp.StatusCode), "Error contacting Unsplash API")
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.UpstreamFailure(err, "Malformed response from Unsplash")
	}
	return nil
}
