package rest

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	app "care-label-reader/internal/application"
	"care-label-reader/internal/domain/entity"
)

type ReadHandler struct {
	reader     *app.ReaderService
	maxUpload  int64
	maxSymbols int
	log        *zap.Logger
}

func NewReadHandler(reader *app.ReaderService, maxUpload int64, maxSymbols int, log *zap.Logger) *ReadHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &ReadHandler{
		reader:     reader,
		maxUpload:  maxUpload,
		maxSymbols: maxSymbols,
		log:        log,
	}
}

// Read распознаёт загруженное фото этикетки (поле формы image)
func (h *ReadHandler) Read(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Success: false,
			Message: "image file is required",
			Error:   err.Error(),
		})
		return
	}

	if h.maxUpload > 0 && file.Size > h.maxUpload {
		c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{
			Success: false,
			Message: fmt.Sprintf("file exceeds %d MB", h.maxUpload/(1024*1024)),
		})
		return
	}

	expected, err := strconv.Atoi(c.DefaultPostForm("expected", "0"))
	if err != nil || expected < 0 || expected > h.maxSymbols {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Success: false,
			Message: fmt.Sprintf("expected must be between 0 and %d", h.maxSymbols),
		})
		return
	}

	f, err := file.Open()
	if err != nil {
		h.log.Error("failed to open uploaded file", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Success: false,
			Message: "failed to open file",
			Error:   err.Error(),
		})
		return
	}
	defer f.Close()

	photo, err := io.ReadAll(f)
	if err != nil {
		h.log.Error("failed to read uploaded file", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Success: false,
			Message: "failed to read file",
			Error:   err.Error(),
		})
		return
	}

	h.log.Info("file uploaded",
		zap.String("filename", file.Filename),
		zap.Int64("size", file.Size),
		zap.Int("expected", expected))

	out, err := h.reader.Read(c.Request.Context(), photo, expected)
	if err != nil {
		h.fail(c, err)
		return
	}

	message := "label read"
	if out.Cached {
		message = "label read (cached)"
	}
	c.JSON(http.StatusOK, ReadResponse{
		Success: true,
		Message: message,
		Data:    newReadingData(out.Reading),
	})
}

// GetByMD5 возвращает сохранённый результат по MD5 снимка
func (h *ReadHandler) GetByMD5(c *gin.Context) {
	md5 := c.Param("md5")

	reading, err := h.reader.Lookup(c.Request.Context(), md5)
	if errors.Is(err, app.ErrReadingNotFound) {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Success: false,
			Message: "reading not found",
		})
		return
	}
	if err != nil {
		h.log.Error("failed to lookup reading", zap.String("md5", md5), zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Success: false,
			Message: "failed to lookup reading",
			Error:   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, ReadResponse{
		Success: true,
		Message: "reading found",
		Data:    newReadingData(reading),
	})
}

func (h *ReadHandler) fail(c *gin.Context, err error) {
	resp := ErrorResponse{
		Success: false,
		Message: "failed to read label",
		Error:   err.Error(),
	}
	if stage, ok := entity.StageOf(err); ok {
		resp.Stage = stage.String()
	}
	c.JSON(statusOf(err), resp)
}

// statusOf HTTP-статус по ошибке распознавания
func statusOf(err error) int {
	switch {
	case errors.Is(err, entity.ErrNoLabelFound),
		errors.Is(err, entity.ErrNoSymbolRowFound),
		errors.Is(err, entity.ErrNoSymbolsFound),
		errors.Is(err, entity.ErrSymbolCountMismatch):
		return http.StatusUnprocessableEntity
	}
	if stage, ok := entity.StageOf(err); ok {
		switch stage {
		case entity.StageDecode:
			return http.StatusBadRequest
		case entity.StageLabel, entity.StageBandVertical, entity.StageBandHorizontal,
			entity.StageAlign, entity.StageIsolate, entity.StageGlyph:
			return http.StatusUnprocessableEntity
		}
	}
	return http.StatusInternalServerError
}
