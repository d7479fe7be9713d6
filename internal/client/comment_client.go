package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mr-deepansh/endlessChat-client-sub002/internal/domain"
	"github.com/mr-deepansh/endlessChat-client-sub002/internal/dto"
	"github.com/mr-deepansh/endlessChat-client-sub002/internal/metrics"
	"github.com/mr-deepansh/endlessChat-client-sub002/internal/response"
)

// UserIDHeader carries the viewer identity to the comment API
const UserIDHeader = "X-User-ID"

// APIError is a non-2xx answer from the comment API
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("comment api returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("comment api returned status %d: %s: %s", e.StatusCode, e.Code, e.Message)
}

// envelope mirrors response.SuccessResponse and response.ErrorResponse
type envelope struct {
	Success bool                `json:"success"`
	Data    json.RawMessage     `json:"data"`
	Error   *response.ErrorBody `json:"error"`
}

// CommentClient talks to the comment API over HTTP
type CommentClient struct {
	baseURL    string
	userID     string
	httpClient *http.Client
	logger     *zap.Logger
	metrics    *metrics.Metrics
}

// NewCommentClient creates a new comment API client acting as userID
func NewCommentClient(baseURL, userID string, timeout time.Duration, logger *zap.Logger, m *metrics.Metrics) *CommentClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CommentClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		userID:  userID,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger:  logger,
		metrics: m,
	}
}

// ListComments fetches one page of root comments of a post
func (c *CommentClient) ListComments(ctx context.Context, postID string, page, limit int) (*dto.CommentListResponse, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(limit))
	endpoint := fmt.Sprintf("%s/posts/%s/comments?%s", c.baseURL, url.PathEscape(postID), query.Encode())

	var out dto.CommentListResponse
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &out); err != nil {
		return nil, err
	}
	if out.Comments == nil {
		out.Comments = []*domain.Comment{}
	}
	return &out, nil
}

// CreateComment creates a root comment or a reply
func (c *CommentClient) CreateComment(ctx context.Context, postID string, req dto.CreateCommentRequest) (*domain.Comment, error) {
	endpoint := fmt.Sprintf("%s/posts/%s/comments", c.baseURL, url.PathEscape(postID))

	var out domain.Comment
	if err := c.do(ctx, http.MethodPost, endpoint, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateComment replaces the content of a comment
func (c *CommentClient) UpdateComment(ctx context.Context, commentID string, req dto.UpdateCommentRequest) (*domain.Comment, error) {
	endpoint := fmt.Sprintf("%s/comments/%s", c.baseURL, url.PathEscape(commentID))

	var out domain.Comment
	if err := c.do(ctx, http.MethodPut, endpoint, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteComment deletes a comment
func (c *CommentClient) DeleteComment(ctx context.Context, commentID string) error {
	endpoint := fmt.Sprintf("%s/comments/%s", c.baseURL, url.PathEscape(commentID))
	return c.do(ctx, http.MethodDelete, endpoint, nil, nil)
}

// ToggleCommentLike flips the viewer's like on a comment
func (c *CommentClient) ToggleCommentLike(ctx context.Context, commentID string) (*dto.LikeResponse, error) {
	endpoint := fmt.Sprintf("%s/comments/%s/like", c.baseURL, url.PathEscape(commentID))

	var out dto.LikeResponse
	if err := c.do(ctx, http.MethodPost, endpoint, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *CommentClient) do(ctx context.Context, method, endpoint string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.userID != "" {
		req.Header.Set(UserIDHeader, c.userID)
	}

	startTime := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(startTime)

	statusCode := 0
	if resp != nil {
		statusCode = resp.StatusCode
	}
	if c.metrics != nil {
		c.metrics.RecordExternalAPICall(endpoint, method, statusCode, duration, err)
	}

	if err != nil {
		c.logger.Error("Comment API request failed",
			zap.String("method", method),
			zap.String("url", endpoint),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return fmt.Errorf("comment api %s: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var env envelope
		if json.Unmarshal(raw, &env) == nil && env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
		}
		c.logger.Warn("Comment API returned non-success status",
			zap.String("method", method),
			zap.String("url", endpoint),
			zap.Int("status_code", resp.StatusCode),
			zap.String("code", apiErr.Code),
			zap.Duration("duration", duration),
		)
		return apiErr
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("failed to decode response data: %w", err)
	}

	c.logger.Debug("Comment API request completed",
		zap.String("method", method),
		zap.String("url", endpoint),
		zap.Int("status_code", resp.StatusCode),
		zap.Duration("duration", duration),
	)
	return nil
}
