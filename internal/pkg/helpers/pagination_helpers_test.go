package helpers

import (
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uteq/division-service/internal/app/models"
	"github.com/uteq/division-service/internal/pkg/apperrors"
)

func contextWithQuery(query string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/?"+query, nil)
	return c
}

func TestParsePageRequest_Defaults(t *testing.T) {
	req, err := ParsePageRequest(contextWithQuery(""), DefaultPageLimits())
	require.NoError(t, err)
	assert.Equal(t, models.PageRequest{Page: 0, Size: 10, SortBy: "id"}, req)
}

func TestParsePageRequest_CapsSize(t *testing.T) {
	req, err := ParsePageRequest(contextWithQuery("page=2&size=500&sortBy=nombre"), DefaultPageLimits())
	require.NoError(t, err)
	assert.Equal(t, 2, req.Page)
	assert.Equal(t, 100, req.Size)
	assert.Equal(t, "nombre", req.SortBy)
	assert.Equal(t, 200, req.Offset())
}

func TestParsePageRequest_ClampsOverflowingPage(t *testing.T) {
	req, err := ParsePageRequest(contextWithQuery("page=922337203685477581&size=10"), DefaultPageLimits())
	require.NoError(t, err)
	assert.Equal(t, math.MaxInt/10, req.Page)
	assert.GreaterOrEqual(t, req.Offset(), 0)
}

func TestPageRequest_OffsetSaturates(t *testing.T) {
	assert.Equal(t, math.MaxInt, models.PageRequest{Page: math.MaxInt, Size: 100}.Offset())
	assert.Equal(t, 0, models.PageRequest{Page: -3, Size: 10}.Offset())
}

func TestParsePageRequest_RejectsInvalidValues(t *testing.T) {
	for _, query := range []string{"page=-1", "page=abc", "size=0", "size=-5", "size=x"} {
		t.Run(query, func(t *testing.T) {
			_, err := ParsePageRequest(contextWithQuery(query), DefaultPageLimits())
			assert.ErrorIs(t, err, apperrors.ErrBadRequest)
		})
	}
}

func TestNewPaginationInfo(t *testing.T) {
	info := NewPaginationInfo(models.Page[int]{Items: []int{1, 2}, Page: 1, Size: 2, TotalItems: 5})
	assert.Equal(t, 3, info.TotalPages)
	assert.False(t, info.First)
	assert.False(t, info.Last)

	empty := NewPaginationInfo(models.Page[int]{Page: 0, Size: 10})
	assert.Equal(t, 0, empty.TotalPages)
	assert.True(t, empty.First)
	assert.True(t, empty.Last)
}
