package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/use-agent/mediascout/models"
)

func main() {
	apiURL := os.Getenv("MEDIASCOUT_API_URL")
	if apiURL == "" {
		apiURL = "http://127.0.0.1:8080"
	}
	apiKey := os.Getenv("MEDIASCOUT_API_KEY")
	if apiKey == "" {
		fmt.Fprintln(os.Stderr, "MEDIASCOUT_API_KEY is required")
		os.Exit(1)
	}

	c := &apiClient{
		baseURL: strings.TrimRight(apiURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 60 * time.Second},
	}

	s := server.NewMCPServer(
		"mediascout",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	s.AddTool(mcp.NewTool("preview_source",
		mcp.WithDescription("Preview a third-party catalog page (anime, comic or movie) before importing it: title, description, cover, genres, rating, status, year, author, the episode or chapter listing, and a suggested content type."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("Absolute http(s) URL of the series page"),
		),
		mcp.WithNumber("max_age",
			mcp.Description("Serve a cached preview younger than this many milliseconds (default: 0, always fetch)"),
		),
	), handlePreview(c))

	s.AddTool(mcp.NewTool("chapter_images",
		mcp.WithDescription("List the page images of a comic chapter in reading order."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("Absolute URL of the chapter page"),
		),
	), handleChapterImages(c))

	s.AddTool(mcp.NewTool("episode_video",
		mcp.WithDescription("Find the player or media URL of an episode page. When no player is found the episode URL is returned and marked unresolved."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("Absolute URL of the episode page"),
		),
	), handleEpisodeVideo(c))

	s.AddTool(mcp.NewTool("chapter_text",
		mcp.WithDescription("Extract the text of a novel chapter as Markdown."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("Absolute URL of the chapter page"),
		),
	), handleChapterText(c))

	s.AddTool(mcp.NewTool("check_link",
		mcp.WithDescription("Probe a URL and classify it as active, offline or error."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("Absolute URL to probe"),
		),
	), handleCheckLink(c))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

// apiClient calls the mediascout HTTP API.
type apiClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// post sends payload to path and decodes the JSON reply into out. Non-2xx
// replies are decoded too; callers inspect the success flag.
func (c *apiClient) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("parse response (status %d): %w", resp.StatusCode, err)
	}
	return nil
}

// apiFailure renders an error envelope for the tool caller.
func apiFailure(fallback string, e *models.ErrorDetail) *mcp.CallToolResult {
	if e == nil {
		return mcp.NewToolResultError(fallback)
	}
	return mcp.NewToolResultError(fmt.Sprintf("[%s] %s", e.Code, e.Message))
}

func handlePreview(c *apiClient) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		url, err := request.RequireString("url")
		if err != nil {
			return mcp.NewToolResultError("url is required"), nil
		}
		payload := models.PreviewRequest{URL: url, MaxAge: request.GetInt("max_age", 0)}

		var resp models.PreviewResponse
		if err := c.post(ctx, "/api/v1/scraper/preview", payload, &resp); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if !resp.Success || resp.Data == nil {
			return apiFailure("preview failed", resp.Error), nil
		}
		return mcp.NewToolResultText(formatPreview(resp.Data)), nil
	}
}

func handleChapterImages(c *apiClient) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		url, err := request.RequireString("url")
		if err != nil {
			return mcp.NewToolResultError("url is required"), nil
		}

		var resp models.ChapterImagesResponse
		if err := c.post(ctx, "/api/v1/scraper/chapter-images", models.TargetRequest{URL: url}, &resp); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if !resp.Success {
			return apiFailure("chapter images failed", resp.Error), nil
		}
		if resp.Count == 0 {
			return mcp.NewToolResultText("No page images found."), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("%d images:\n%s", resp.Count, strings.Join(resp.Images, "\n"))), nil
	}
}

func handleEpisodeVideo(c *apiClient) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		url, err := request.RequireString("url")
		if err != nil {
			return mcp.NewToolResultError("url is required"), nil
		}

		var resp models.EpisodeVideoResponse
		if err := c.post(ctx, "/api/v1/scraper/episode-video", models.TargetRequest{URL: url}, &resp); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if !resp.Success {
			return apiFailure("episode video failed", resp.Error), nil
		}
		if !resp.Resolved {
			return mcp.NewToolResultText("No player found; episode page: " + resp.VideoURL), nil
		}
		return mcp.NewToolResultText(resp.VideoURL), nil
	}
}

func handleChapterText(c *apiClient) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		url, err := request.RequireString("url")
		if err != nil {
			return mcp.NewToolResultError("url is required"), nil
		}

		var resp models.ChapterTextResponse
		if err := c.post(ctx, "/api/v1/scraper/chapter-text", models.TargetRequest{URL: url}, &resp); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if !resp.Success || resp.ChapterText == nil {
			return apiFailure("chapter text failed", resp.Error), nil
		}
		if resp.Markdown == "" {
			return mcp.NewToolResultText("No chapter text found."), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("# %s\n\n%s", resp.Title, resp.Markdown)), nil
	}
}

func handleCheckLink(c *apiClient) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		url, err := request.RequireString("url")
		if err != nil {
			return mcp.NewToolResultError("url is required"), nil
		}

		var resp models.LinkStatusResponse
		if err := c.post(ctx, "/api/v1/scraper/link-status", models.TargetRequest{URL: url}, &resp); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if !resp.Success || resp.Data == nil {
			return apiFailure("link check failed", resp.Error), nil
		}
		return mcp.NewToolResultText(formatHealth(resp.Data)), nil
	}
}

func formatPreview(p *models.Preview) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Title: %s\nSource: %s\nSuggested type: %s\nStatus: %s\n",
		p.Title, p.SourceURL, p.SuggestedType, p.Status)
	if p.Year != nil {
		fmt.Fprintf(&b, "Year: %d\n", *p.Year)
	}
	if p.Rating > 0 {
		fmt.Fprintf(&b, "Rating: %.1f\n", p.Rating)
	}
	if p.Author != "" {
		fmt.Fprintf(&b, "Author: %s\n", p.Author)
	}
	if len(p.Genres) > 0 {
		fmt.Fprintf(&b, "Genres: %s\n", strings.Join(p.Genres, ", "))
	}
	if p.CoverImage != "" {
		fmt.Fprintf(&b, "Cover: %s\n", p.CoverImage)
	}
	if p.Description != "" {
		fmt.Fprintf(&b, "\n%s\n", p.Description)
	}

	if p.EpisodesCount > 0 {
		fmt.Fprintf(&b, "\nEpisodes (%d):\n", p.EpisodesCount)
		for _, ep := range p.Episodes {
			fmt.Fprintf(&b, "- %d. %s  %s\n", ep.EpisodeNumber, ep.Title, ep.VideoURL)
		}
	}
	if p.ChaptersCount > 0 {
		fmt.Fprintf(&b, "\nChapters (%d):\n", p.ChaptersCount)
		for _, ch := range p.Chapters {
			fmt.Fprintf(&b, "- %g. %s  %s\n", ch.ChapterNumber, ch.Title, ch.URL)
		}
	}
	return b.String()
}

func formatHealth(h *models.LinkHealth) string {
	s := fmt.Sprintf("Status: %s\nHTTP status: %d\nResponse time: %dms", h.Status, h.StatusCode, h.ResponseTime)
	if h.Error != "" {
		s += "\nError: " + h.Error
	}
	return s
}
