package handlers

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Haleralex/fundhub/internal/adapters/http/common"
	"github.com/Haleralex/fundhub/internal/application/converters"
)

func TestBindURI(t *testing.T) {
	router := newTestRouter()
	router.GET("/items/:id", func(c *gin.Context) {
		id, ok := bindID(c)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": id.String()})
	})

	t.Run("Success", func(t *testing.T) {
		id := uuid.New()
		w := doJSON(router, http.MethodGet, "/items/"+id.String(), "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), id.String())
	})

	t.Run("InvalidUUID", func(t *testing.T) {
		w := doJSON(router, http.MethodGet, "/items/not-a-uuid", "")

		require.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeError(t, w)
		assert.Equal(t, common.CodeValidation, resp.Code)
		require.Len(t, resp.Fields, 1)
		assert.Equal(t, "id", resp.Fields[0].Field)
		assert.Equal(t, "uuid", resp.Fields[0].Code)
		assert.Equal(t, "invalid UUID format", resp.Fields[0].Message)
	})
}

func TestBindQuery(t *testing.T) {
	type query struct {
		PaginationParams
		Search string `form:"search" binding:"notblank"`
	}

	router := newTestRouter()
	router.GET("/test", func(c *gin.Context) {
		var q query
		if !BindQuery(c, &q) {
			return
		}
		offset, limit := q.Normalize()
		c.JSON(http.StatusOK, gin.H{"offset": offset, "limit": limit, "search": q.Search})
	})

	t.Run("DefaultsApplied", func(t *testing.T) {
		w := doJSON(router, http.MethodGet, "/test?search=solar", "")

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"offset":0,"limit":20,"search":"solar"}`, w.Body.String())
	})

	t.Run("LimitAboveMax", func(t *testing.T) {
		w := doJSON(router, http.MethodGet, "/test?search=x&limit=101", "")

		require.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeError(t, w)
		require.Len(t, resp.Fields, 1)
		assert.Equal(t, "limit", resp.Fields[0].Field)
		assert.Equal(t, "max", resp.Fields[0].Code)
	})

	t.Run("NegativeOffset", func(t *testing.T) {
		w := doJSON(router, http.MethodGet, "/test?search=x&offset=-1", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("BlankSearch", func(t *testing.T) {
		w := doJSON(router, http.MethodGet, "/test?search=%20%20", "")

		require.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeError(t, w)
		require.Len(t, resp.Fields, 1)
		assert.Equal(t, "notblank", resp.Fields[0].Code)
	})

	t.Run("NotANumber", func(t *testing.T) {
		w := doJSON(router, http.MethodGet, "/test?search=x&limit=ten", "")

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, common.CodeBadRequest, decodeError(t, w).Code)
	})
}

func TestJSONInput(t *testing.T) {
	var got converters.Input
	router := newTestRouter()
	router.POST("/test", func(c *gin.Context) {
		in, ok := jsonInput(c)
		if !ok {
			return
		}
		got = in
		c.Status(http.StatusNoContent)
	})

	t.Run("Object", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/test", `{"title":"Hi","tags":["a"],"skip":null}`)

		require.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "Hi", got.Fields["title"])
		assert.Equal(t, `["a"]`, got.Fields["tags"])
		assert.NotContains(t, got.Fields, "skip")
	})

	t.Run("EmptyBody", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/test", "")

		require.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, got.Fields)
	})

	t.Run("NotAnObject", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/test", `[1,2]`)

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, common.CodeBadRequest, decodeError(t, w).Code)
	})
}

func TestMultipartInput(t *testing.T) {
	var got converters.Input
	router := newTestRouter()
	router.POST("/upload", func(c *gin.Context) {
		in, ok := multipartInput(c, 4<<10)
		if !ok {
			return
		}
		got = in
		c.Status(http.StatusNoContent)
	})

	t.Run("FieldsAndFiles", func(t *testing.T) {
		body, ct := multipartBody(t, map[string]string{"phone": "+77026992839"},
			multipartFile{field: "plan", name: "plan.pdf", content: testPDF})

		w := doRequest(router, http.MethodPost, "/upload", body, ct)

		require.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "+77026992839", got.Fields["phone"])
		require.Contains(t, got.Files, "plan")
		rc, err := got.Files["plan"]()
		require.NoError(t, err)
		defer rc.Close()
		content, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, testPDF, content)
	})

	t.Run("TooLarge", func(t *testing.T) {
		body, ct := multipartBody(t, nil,
			multipartFile{field: "plan", name: "plan.pdf", content: bytes.Repeat([]byte("x"), 8<<10)})

		w := doRequest(router, http.MethodPost, "/upload", body, ct)

		require.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Equal(t, "request_too_large", decodeError(t, w).Code)
	})

	t.Run("NotMultipart", func(t *testing.T) {
		w := doRequest(router, http.MethodPost, "/upload", strings.NewReader(`{}`), "application/json")

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, common.CodeBadRequest, decodeError(t, w).Code)
	})
}

func TestGetValidationMessage(t *testing.T) {
	type request struct {
		Name  string `json:"name" binding:"required"`
		Kind  string `json:"kind" binding:"omitempty,oneof=a b"`
		Count int    `json:"count" binding:"min=1"`
	}

	router := newTestRouter()
	router.POST("/test", func(c *gin.Context) {
		var req request
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationErrors(c, err)
			return
		}
		c.Status(http.StatusOK)
	})

	w := doJSON(router, http.MethodPost, "/test", `{"kind":"c","count":0}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	messages := map[string]string{}
	for _, f := range decodeError(t, w).Fields {
		messages[f.Field] = f.Message
	}
	assert.Equal(t, "this field is required", messages["name"])
	assert.Equal(t, "value must be one of: a b", messages["kind"])
	assert.Equal(t, "value is too small (minimum: 1)", messages["count"])
}
