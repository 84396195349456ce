// Package common содержит общие типы для HTTP слоя.
//
// Вынесен в отдельный пакет чтобы избежать циклических импортов
// между handlers, middleware и основным http пакетом.
package common

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	domainerrors "github.com/Haleralex/fundhub/internal/domain/errors"
)

// ============================================
// Error Response Format
// ============================================

// ErrorResponse - тело ответа с ошибкой: {"detail": ..., "code": ...}.
type ErrorResponse struct {
	Detail string       `json:"detail"`
	Code   string       `json:"code"`
	Fields []FieldError `json:"fields,omitempty"`
}

// FieldError - ошибка конкретного поля.
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ============================================
// Error Codes (transport level)
// ============================================

const (
	CodeValidation       = "validation_error"
	CodeBadRequest       = "bad_request"
	CodeNotFound         = "not_found"
	CodeMethodNotAllowed = "method_not_allowed"
	CodeTooManyRequests  = "too_many_requests"
	CodeInternal         = "internal_error"
)

// InternalErrorDetail - единственное сообщение, которое видит клиент при 500.
const InternalErrorDetail = "internal server error"

// kindStatus - статическая таблица Kind -> HTTP статус.
var kindStatus = map[domainerrors.Kind]int{
	domainerrors.KindValidation:    http.StatusBadRequest,
	domainerrors.KindNotFound:      http.StatusNotFound,
	domainerrors.KindAlreadyExists: http.StatusConflict,
	domainerrors.KindAuth:          http.StatusUnauthorized,
	domainerrors.KindPermission:    http.StatusForbidden,
}

// StatusOf возвращает HTTP статус для ошибки. Ошибки без kind -> 500.
func StatusOf(err error) int {
	kind, ok := domainerrors.KindOf(err)
	if !ok {
		return http.StatusInternalServerError
	}
	if status, ok := kindStatus[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// ============================================
// Request ID
// ============================================

// RequestIDKey - ключ Request ID в gin.Context.
const RequestIDKey = "request_id"

// GetRequestID возвращает Request ID из контекста.
func GetRequestID(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}

// ============================================
// Response Helpers
// ============================================

// Error отправляет ответ с ошибкой.
func Error(c *gin.Context, statusCode int, code, detail string) {
	c.JSON(statusCode, ErrorResponse{Detail: detail, Code: code})
}

// AbortWithError прерывает цепочку handlers ответом с ошибкой (для middleware).
func AbortWithError(c *gin.Context, statusCode int, code, detail string) {
	c.AbortWithStatusJSON(statusCode, ErrorResponse{Detail: detail, Code: code})
}

// ValidationErrorResponse - 400 с перечнем полей.
func ValidationErrorResponse(c *gin.Context, fields []FieldError) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Detail: "request validation failed",
		Code:   CodeValidation,
		Fields: fields,
	})
}

// BadRequestResponse - 400 для запросов, которые не удалось разобрать.
func BadRequestResponse(c *gin.Context, detail string) {
	Error(c, http.StatusBadRequest, CodeBadRequest, detail)
}

// InternalErrorResponse - непрозрачный 500.
func InternalErrorResponse(c *gin.Context) {
	Error(c, http.StatusInternalServerError, CodeInternal, InternalErrorDetail)
}

// ============================================
// Domain Error to HTTP Error Mapper
// ============================================

// HandleDomainError преобразует ошибку в HTTP ответ по таблице kindStatus.
// Ошибка без kind логируется и превращается в 500 без подробностей.
func HandleDomainError(c *gin.Context, err error) {
	var valErr domainerrors.ValidationError
	if errors.As(err, &valErr) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Detail: valErr.Message,
			Code:   valErr.Code,
			Fields: []FieldError{{Field: valErr.Field, Code: valErr.Code, Message: valErr.Message}},
		})
		return
	}

	var domErr *domainerrors.DomainError
	if errors.As(err, &domErr) {
		status, ok := kindStatus[domErr.Kind]
		if ok {
			Error(c, status, domErr.Code, domErr.Message)
			return
		}
	}

	_ = c.Error(err)
	slog.ErrorContext(c.Request.Context(), "unhandled error",
		slog.String("error", err.Error()),
		slog.String("path", c.Request.URL.Path),
		slog.String("method", c.Request.Method),
		slog.String("request_id", GetRequestID(c)),
	)
	InternalErrorResponse(c)
}
