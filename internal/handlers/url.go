package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/serroba/shortlink/internal/events"
	"github.com/serroba/shortlink/internal/messaging"
	"github.com/serroba/shortlink/internal/shortener"
	"go.uber.org/zap"
)

// Shortener is the pipeline the URL handler drives.
type Shortener interface {
	Create(ctx context.Context, req shortener.CreateRequest) (*shortener.CreateResult, error)
	Resolve(ctx context.Context, shortID string) (*shortener.Resolution, error)
}

// URLHandler handles link creation and redirects.
type URLHandler struct {
	service          Shortener
	publishCreated   messaging.Publish[events.LinkCreated]
	publishExhausted messaging.Publish[events.GenerationExhausted]
	logger           *zap.Logger
	exposeDetail     bool
}

// NewURLHandler creates a new URL handler. When exposeDetail is set, error
// responses carry the underlying cause.
func NewURLHandler(
	service Shortener,
	publishCreated messaging.Publish[events.LinkCreated],
	publishExhausted messaging.Publish[events.GenerationExhausted],
	logger *zap.Logger,
	exposeDetail bool,
) *URLHandler {
	return &URLHandler{
		service:          service,
		publishCreated:   publishCreated,
		publishExhausted: publishExhausted,
		logger:           logger,
		exposeDetail:     exposeDetail,
	}
}

type requestMetaKey struct{}

// RequestMeta holds HTTP request metadata used for rate limiting and logging.
type RequestMeta struct {
	ClientIP  string
	UserAgent string
}

// ContextWithRequestMeta adds request metadata to context.
func ContextWithRequestMeta(ctx context.Context, meta RequestMeta) context.Context {
	return context.WithValue(ctx, requestMetaKey{}, meta)
}

// RequestMetaFromContext extracts request metadata from context.
func RequestMetaFromContext(ctx context.Context) RequestMeta {
	if v, ok := ctx.Value(requestMetaKey{}).(RequestMeta); ok {
		return v
	}

	return RequestMeta{}
}

func (h *URLHandler) CreateShortLink(ctx context.Context, req *CreateShortLinkRequest) (*CreateShortLinkResponse, error) {
	var longURL string
	if req.Body != nil {
		longURL = req.Body.LongURL
	}

	meta := RequestMetaFromContext(ctx)

	result, err := h.service.Create(ctx, shortener.CreateRequest{
		LongURL:  longURL,
		ClientID: meta.ClientIP,
	})
	if err != nil {
		var genErr *shortener.GenerationError
		if errors.As(err, &genErr) {
			h.publishExhaustion(ctx, genErr.Attempts)
		}

		return nil, h.fail(err, zap.String("client_ip", meta.ClientIP))
	}

	event := &events.LinkCreated{
		ShortID:   string(result.ShortID),
		LongURL:   result.LongURL,
		CreatedAt: result.CreatedAt,
	}

	if err := h.publishCreated(ctx, event); err != nil {
		h.logger.Error("failed to publish link created event",
			zap.String("short_id", event.ShortID),
			zap.Error(err),
		)
	}

	resp := &CreateShortLinkResponse{}
	resp.Location = result.ShortURL
	resp.Body.ShortURL = result.ShortURL
	resp.Body.ShortID = string(result.ShortID)
	resp.Body.LongURL = result.LongURL

	return resp, nil
}

func (h *URLHandler) Redirect(ctx context.Context, req *RedirectRequest) (*RedirectResponse, error) {
	resolution, err := h.service.Resolve(ctx, req.ShortID)
	if err != nil {
		return nil, h.fail(err, zap.String("short_id", req.ShortID))
	}

	return &RedirectResponse{
		Status:   http.StatusMovedPermanently,
		Location: resolution.LongURL,
	}, nil
}

func (h *URLHandler) publishExhaustion(ctx context.Context, attempts int) {
	event := &events.GenerationExhausted{
		Attempts:   attempts,
		OccurredAt: time.Now().UTC(),
	}

	if err := h.publishExhausted(ctx, event); err != nil {
		h.logger.Error("failed to publish generation exhausted event", zap.Error(err))
	}
}

// fail converts a pipeline error into the error envelope, logging server-side failures.
func (h *URLHandler) fail(err error, fields ...zap.Field) error {
	status, msg := statusFor(err)
	fields = append(fields, zap.Int("status", status), zap.Error(err))

	switch {
	case status == StatusClientClosedRequest:
		h.logger.Info("client went away", fields...)
	case status == http.StatusGatewayTimeout:
		h.logger.Warn("request deadline exceeded", fields...)
	case status >= http.StatusInternalServerError:
		h.logger.Error(msg, fields...)
	}

	model := &ErrorModel{
		status: status,
		Err:    ErrorDetail{Message: msg},
	}

	if h.exposeDetail {
		model.Err.Detail = err.Error()
	}

	return model
}
