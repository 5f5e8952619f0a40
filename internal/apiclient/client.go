// Package apiclient implements session.Stages over the server's HTTP API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/Dev2197/recipe-snap/internal/analyze"
	"github.com/Dev2197/recipe-snap/internal/apperr"
	"github.com/Dev2197/recipe-snap/internal/recipe"
	"github.com/Dev2197/recipe-snap/internal/upload"
)

// analyzeTimeout mirrors the bound the browser client put on analysis.
const analyzeTimeout = 120 * time.Second

type Client struct {
	baseURL string
	http    *http.Client

	// recipeTimeout bounds generation; zero means no client-side bound
	// (the server still enforces its own).
	recipeTimeout time.Duration
}

type Option func(*Client)

// WithRecipeTimeout sets a client-side bound on recipe generation.
func WithRecipeTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.recipeTimeout = d
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Upload(ctx context.Context, r io.Reader, declaredType, originalName string, size int64) (*upload.Image, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="image"; filename=%q`, originalName))
	hdr.Set("Content-Type", declaredType)
	part, err := mw.CreatePart(hdr)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/upload", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out struct {
		Filename     string `json:"filename"`
		OriginalName string `json:"originalName"`
		Size         int64  `json:"size"`
		Path         string `json:"path"`
	}
	if err := c.do(req, &out); err != nil {
		return nil, err
	}

	return &upload.Image{
		Filename:     out.Filename,
		OriginalName: out.OriginalName,
		Size:         out.Size,
		Path:         out.Path,
	}, nil
}

func (c *Client) Analyze(ctx context.Context, filename string) (*analyze.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, analyzeTimeout)
	defer cancel()

	req, err := c.jsonRequest(ctx, "/api/analyze", map[string]string{"filename": filename})
	if err != nil {
		return nil, err
	}

	var out analyze.Result
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	if out.Ingredients == nil {
		out.Ingredients = []string{}
	}
	return &out, nil
}

func (c *Client) GenerateRecipe(ctx context.Context, ingredients []string, caption string) (*recipe.Result, error) {
	if c.recipeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.recipeTimeout)
		defer cancel()
	}

	req, err := c.jsonRequest(ctx, "/api/recipe", map[string]any{
		"ingredients": ingredients,
		"caption":     caption,
	})
	if err != nil {
		return nil, err
	}

	var out recipe.Result
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) jsonRequest(ctx context.Context, path string, payload any) (*http.Request, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// do executes the request, classifying transport failures as network
// errors and non-2xx responses by status code, and decodes success bodies
// into out.
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		if req.Context().Err() == context.DeadlineExceeded {
			return apperr.Timeoutf("request to %s timed out", req.URL.Path)
		}
		return apperr.Networkf("could not reach server: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperr.Networkf("reading response: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errBody struct {
			Error string `json:"error"`
		}
		msg := strings.TrimSpace(string(raw))
		if json.Unmarshal(raw, &errBody) == nil && errBody.Error != "" {
			msg = errBody.Error
		}
		switch resp.StatusCode {
		case http.StatusBadRequest:
			return apperr.Validationf("%s", msg)
		case http.StatusNotFound:
			return apperr.NotFoundf("%s", msg)
		case http.StatusGatewayTimeout:
			return apperr.Timeoutf("%s", msg)
		default:
			return apperr.Externalf("%s", msg)
		}
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return apperr.Externalf("decoding response: %v", err)
		}
	}
	return nil
}
