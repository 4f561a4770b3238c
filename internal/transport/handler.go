package transport

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"cable-inspector/config"
	"cable-inspector/internal/domain/entity"
	apperrors "cable-inspector/internal/errors"
	"cable-inspector/internal/logger"
	"cable-inspector/internal/metrics"
)

// Inspector описывает операции сервиса анализа, которые нужны HTTP-слою.
type Inspector interface {
	Accept(ctx context.Context, id, chatID int64, data []byte) (*entity.Session, error)
	Measure(ctx context.Context, id, chatID int64) (*entity.MeasureResult, error)
	FindDefects(ctx context.Context, id, chatID int64) (*entity.DefectResult, error)
	Inspect(ctx context.Context, id, chatID int64) (*entity.InspectionResult, error)
	EncodeOutput(r entity.Raster, ext string) ([]byte, error)
	Describe(ctx context.Context, result *entity.InspectionResult) (*entity.Description, error)
	Close(ctx context.Context, id int64) error
}

// ImageField: имя поля multipart-формы с изображением.
const ImageField = "image"

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type MeasureResponse struct {
	Measurements []entity.Measurement      `json:"measurements"`
	Summary      entity.MeasurementSummary `json:"summary"`
	Image        string                    `json:"image,omitempty"` // base64 PNG
}

type DefectsResponse struct {
	Regions []entity.DefectRegion `json:"regions"`
	Counts  map[string]int        `json:"counts"`
	Image   string                `json:"image,omitempty"` // base64 PNG
}

type InspectResponse struct {
	Width       int             `json:"width"`
	Height      int             `json:"height"`
	Measure     MeasureResponse `json:"measure"`
	Defects     DefectsResponse `json:"defects"`
	Description string          `json:"description,omitempty"`
}

type handler struct {
	svc     Inspector
	cfg     *config.Config
	nextReq atomic.Int64
}

func NewHandler(svc Inspector, cfg *config.Config) http.Handler {
	h := &handler{svc: svc, cfg: cfg}

	r := gin.New()
	r.Use(
		gin.Recovery(),
		requestMetrics(),
		requestSizeLimiter(cfg.MaxRequestBodySize),
	)

	r.GET("/health", healthCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	api.POST("/measure", h.measure)
	api.POST("/defects", h.defects)
	api.POST("/inspect", h.inspect)

	return r
}

// withUpload загружает изображение из формы во временную сессию и вызывает run.
// Сессия удаляется после ответа.
func (h *handler) withUpload(c *gin.Context, run func(ctx context.Context, id int64)) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.cfg.RequestTimeout)
	defer cancel()

	data, err := readUpload(c)
	if err != nil {
		respondError(c, err)
		return
	}

	id := h.nextReq.Add(1)
	defer func() {
		if err := h.svc.Close(context.Background(), id); err != nil {
			logger.WithError(err).WithField("session", id).Warn("could not drop request session")
		}
	}()

	if _, err := h.svc.Accept(ctx, id, 0, data); err != nil {
		respondError(c, err)
		return
	}

	run(ctx, id)
}

func readUpload(c *gin.Context) ([]byte, error) {
	fh, err := c.FormFile(ImageField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, &apperrors.AppError{
				Type:       apperrors.ErrorTypeValidation,
				Message:    "image is too large",
				StatusCode: http.StatusRequestEntityTooLarge,
				Cause:      err,
			}
		}
		return nil, apperrors.NewValidationError(fmt.Sprintf("multipart field %q is required", ImageField), err)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, apperrors.NewIOError("could not read upload", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, apperrors.NewIOError("could not read upload", err)
	}
	return data, nil
}

func (h *handler) measure(c *gin.Context) {
	h.withUpload(c, func(ctx context.Context, id int64) {
		res, err := h.svc.Measure(ctx, id, 0)
		if err != nil {
			respondError(c, err)
			return
		}
		if wantsImage(c) {
			h.respondImage(c, res.Annotated)
			return
		}

		body, err := h.measureBody(res)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, body)
	})
}

func (h *handler) defects(c *gin.Context) {
	h.withUpload(c, func(ctx context.Context, id int64) {
		res, err := h.svc.FindDefects(ctx, id, 0)
		if err != nil {
			respondError(c, err)
			return
		}
		if wantsImage(c) {
			h.respondImage(c, res.Annotated)
			return
		}

		body, err := h.defectsBody(res)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, body)
	})
}

func (h *handler) inspect(c *gin.Context) {
	h.withUpload(c, func(ctx context.Context, id int64) {
		res, err := h.svc.Inspect(ctx, id, 0)
		if err != nil {
			respondError(c, err)
			return
		}

		measure, err := h.measureBody(res.Measure)
		if err != nil {
			respondError(c, err)
			return
		}
		defects, err := h.defectsBody(res.Defects)
		if err != nil {
			respondError(c, err)
			return
		}

		body := InspectResponse{
			Width:   res.ImageWidth,
			Height:  res.ImageHeight,
			Measure: *measure,
			Defects: *defects,
		}
		if desc, err := h.svc.Describe(ctx, res); err == nil {
			body.Description = desc.Text
		} else {
			logger.WithError(err).Warn("could not describe inspection")
		}

		c.JSON(http.StatusOK, body)
	})
}

func (h *handler) measureBody(res *entity.MeasureResult) (*MeasureResponse, error) {
	img, err := h.encodePNG(res.Annotated)
	if err != nil {
		return nil, err
	}
	ms := res.Measurements
	if ms == nil {
		ms = []entity.Measurement{}
	}
	return &MeasureResponse{Measurements: ms, Summary: res.Summary, Image: img}, nil
}

func (h *handler) defectsBody(res *entity.DefectResult) (*DefectsResponse, error) {
	img, err := h.encodePNG(res.Annotated)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(entity.DefectClasses))
	for _, class := range entity.DefectClasses {
		counts[class.String()] = res.Counts[class]
	}
	regions := res.Regions
	if regions == nil {
		regions = []entity.DefectRegion{}
	}
	return &DefectsResponse{Regions: regions, Counts: counts, Image: img}, nil
}

func (h *handler) encodePNG(r entity.Raster) (string, error) {
	data, err := h.svc.EncodeOutput(r, ".png")
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

func (h *handler) respondImage(c *gin.Context, r entity.Raster) {
	data, err := h.svc.EncodeOutput(r, ".png")
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", data)
}

func wantsImage(c *gin.Context) bool {
	return c.Query("format") == "png"
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "available",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// Промежуточные обработчики и вспомогательные функции
func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func requestMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.ObserveHTTP(path, time.Since(started))
	}
}

func statusCode(err error) int {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	code := statusCode(err)

	logger.WithError(err).WithFields(logrus.Fields{
		"status_code": code,
		"path":        c.Request.URL.Path,
		"method":      c.Request.Method,
		"ip":          c.ClientIP(),
	}).Error("Request failed")

	c.AbortWithStatusJSON(code, ErrorResponse{
		Error:   http.StatusText(code),
		Message: err.Error(),
	})
}
