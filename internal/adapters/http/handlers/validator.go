// Package handlers содержит HTTP handlers для REST API.
//
// Handler - это Adapter в терминах Clean Architecture:
// - Принимает HTTP запрос
// - Собирает сырой ввод (converters.Input) или биндит query/URI параметры
// - Вызывает Use Case
// - Преобразует результат или ошибку в HTTP ответ
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/google/uuid"

	"github.com/Haleralex/fundhub/internal/adapters/http/common"
	"github.com/Haleralex/fundhub/internal/application/converters"
	"github.com/Haleralex/fundhub/internal/application/dtos"
)

// ============================================
// Custom Validator Setup
// ============================================

var setupOnce sync.Once

// SetupValidator настраивает валидатор gin: имена полей из json/form тегов и notblank.
func SetupValidator() {
	setupOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			v.RegisterTagNameFunc(func(fld reflect.StructField) string {
				for _, tag := range []string{"json", "form", "uri"} {
					name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
					if name == "-" {
						return ""
					}
					if name != "" {
						return name
					}
				}
				return fld.Name
			})

			_ = v.RegisterValidation("notblank", validators.NotBlank)
		}
	})
}

// ============================================
// Validation Error Handling
// ============================================

// HandleValidationErrors преобразует ошибки биндинга в 400 validation_error.
func HandleValidationErrors(c *gin.Context, err error) {
	var fieldErrors []common.FieldError

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, fieldErr := range validationErrors {
			fieldErrors = append(fieldErrors, common.FieldError{
				Field:   fieldErr.Field(),
				Code:    fieldErr.Tag(),
				Message: getValidationMessage(fieldErr),
			})
		}
	}

	if len(fieldErrors) == 0 {
		common.BadRequestResponse(c, "invalid request parameters")
		return
	}

	common.ValidationErrorResponse(c, fieldErrors)
}

// getValidationMessage возвращает человекочитаемое сообщение об ошибке.
func getValidationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "notblank":
		return "this field must not be blank"
	case "uuid":
		return "invalid UUID format"
	case "min":
		return "value is too small (minimum: " + fe.Param() + ")"
	case "max":
		return "value is too large (maximum: " + fe.Param() + ")"
	case "oneof":
		return "value must be one of: " + fe.Param()
	default:
		return "invalid value"
	}
}

// ============================================
// Request Parsing Helpers
// ============================================

// BindQuery биндит query параметры. false - ответ уже отправлен.
func BindQuery[T any](c *gin.Context, req *T) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		HandleValidationErrors(c, err)
		return false
	}
	return true
}

// BindURI биндит URI параметры. false - ответ уже отправлен.
func BindURI[T any](c *gin.Context, req *T) bool {
	if err := c.ShouldBindUri(req); err != nil {
		HandleValidationErrors(c, err)
		return false
	}
	return true
}

// IDParam - UUID из пути.
type IDParam struct {
	ID string `uri:"id" binding:"required,uuid"`
}

// bindID биндит :id и парсит его в uuid.UUID.
func bindID(c *gin.Context) (uuid.UUID, bool) {
	var p IDParam
	if !BindURI(c, &p) {
		return uuid.Nil, false
	}
	return uuid.MustParse(p.ID), true
}

// jsonInput читает JSON-объект тела запроса в converters.Input.
// Пустое тело даёт пустой Input: обязательность полей проверяют converters.
func jsonInput(c *gin.Context) (converters.Input, bool) {
	var body map[string]json.RawMessage
	if err := json.NewDecoder(c.Request.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		common.BadRequestResponse(c, "request body must be a JSON object")
		return converters.Input{}, false
	}
	return converters.FromJSONBody(body), true
}

// multipartInput читает multipart/form-data: первое значение каждого поля и файлы.
func multipartInput(c *gin.Context, maxBody int64) (converters.Input, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBody)

	form, err := c.MultipartForm()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			common.Error(c, http.StatusRequestEntityTooLarge, "request_too_large", "request body is too large")
			return converters.Input{}, false
		}
		common.BadRequestResponse(c, "request must be multipart/form-data")
		return converters.Input{}, false
	}

	in := converters.NewInput()
	for key, values := range form.Value {
		if len(values) > 0 {
			in.Fields[key] = values[0]
		}
	}
	for key, files := range form.File {
		if len(files) > 0 {
			in.Files[key] = openFile(files[0])
		}
	}
	return in, true
}

func openFile(fh *multipart.FileHeader) converters.FileOpener {
	return func() (io.ReadCloser, error) {
		return fh.Open()
	}
}

// ============================================
// Pagination Helper
// ============================================

// PaginationParams - offset/limit из query string.
type PaginationParams struct {
	Offset int `form:"offset" binding:"min=0"`
	Limit  int `form:"limit" binding:"omitempty,min=1,max=100"`
}

// Normalize применяет значения по умолчанию.
func (p PaginationParams) Normalize() (offset, limit int) {
	return dtos.NormalizePage(p.Offset, p.Limit)
}
