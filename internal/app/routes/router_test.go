package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"github.com/uteq/division-service/internal/app/controllers"
	"github.com/uteq/division-service/internal/app/models/dto"
	"github.com/uteq/division-service/internal/app/repositories/memory"
	"github.com/uteq/division-service/internal/app/services"
	"github.com/uteq/division-service/internal/pkg/helpers"
	"github.com/uteq/division-service/internal/pkg/validation"
)

type envelope struct {
	Success bool             `json:"success"`
	Data    json.RawMessage  `json:"data"`
	Error   *dto.ErrorDetail `json:"error"`
}

type pageBody[T any] struct {
	Items      []T                `json:"items"`
	Pagination dto.PaginationInfo `json:"pagination"`
}

type RouterTestSuite struct {
	suite.Suite
	router *gin.Engine
}

func TestRouterTestSuite(t *testing.T) {
	suite.Run(t, new(RouterTestSuite))
}

func (s *RouterTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	s.Require().NoError(validation.RegisterWithGin())
}

func (s *RouterTestSuite) SetupTest() {
	svcs := services.NewServices(memory.NewRepositories(), nil)
	limits := helpers.DefaultPageLimits()

	s.router = gin.New()
	s.router.ContextWithFallback = true
	SetupRouter(s.router,
		controllers.NewDivisionController(svcs.DivisionService, limits),
		controllers.NewCoordinatorController(svcs.CoordinatorService, limits),
	)
}

func (s *RouterTestSuite) do(method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func (s *RouterTestSuite) decode(raw json.RawMessage, dest interface{}) {
	s.Require().NoError(json.Unmarshal(raw, dest))
}

func (s *RouterTestSuite) createDivision(name string, programs ...string) dto.DivisionView {
	req := dto.DivisionRequest{Name: name}
	for _, p := range programs {
		req.Programs = append(req.Programs, dto.ProgramRequest{Name: p})
	}
	w, env := s.do(http.MethodPost, "/api/v1/divisiones", req)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var view dto.DivisionView
	s.decode(env.Data, &view)
	return view
}

func (s *RouterTestSuite) TestDivisionLifecycle() {
	created := s.createDivision("Engineering", "CS", "EE")
	s.Equal(2, created.ProgramCount)

	w, env := s.do(http.MethodPut, fmt.Sprintf("/api/v1/divisiones/%d", created.ID), map[string]interface{}{
		"nombre":              "Engineering",
		"programasEducativos": []map[string]interface{}{{"nombre": "CS"}},
	})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var updated dto.DivisionView
	s.decode(env.Data, &updated)
	s.Equal([]string{"CS"}, updated.Programs)
	s.Equal(1, updated.ProgramCount)

	w, _ = s.do(http.MethodDelete, fmt.Sprintf("/api/v1/divisiones/%d", created.ID), nil)
	s.Equal(http.StatusNoContent, w.Code)

	w, env = s.do(http.MethodGet, fmt.Sprintf("/api/v1/divisiones/%d", created.ID), nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var after dto.DivisionView
	s.decode(env.Data, &after)
	s.False(after.Active)
	s.Equal(0, after.ProgramCount)

	w, _ = s.do(http.MethodDelete, "/api/v1/divisiones/999", nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *RouterTestSuite) TestDivisionErrors() {
	s.createDivision("Engineering")

	w, env := s.do(http.MethodPost, "/api/v1/divisiones", dto.DivisionRequest{Name: "engineering"})
	s.Equal(http.StatusConflict, w.Code)
	s.Require().NotNil(env.Error)
	s.Equal(dto.ErrorCodeConflict, env.Error.Code)

	w, env = s.do(http.MethodPost, "/api/v1/divisiones", map[string]string{"nombre": "   "})
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal(dto.ErrorCodeValidationFailed, env.Error.Code)

	w, _ = s.do(http.MethodGet, "/api/v1/divisiones/abc", nil)
	s.Equal(http.StatusBadRequest, w.Code)

	w, _ = s.do(http.MethodGet, "/api/v1/divisiones/42", nil)
	s.Equal(http.StatusNotFound, w.Code)

	w, _ = s.do(http.MethodPatch, "/api/v1/divisiones/42/toggle-status", nil)
	s.Equal(http.StatusNotFound, w.Code)

	w, env = s.do(http.MethodGet, "/api/v1/divisiones/paginated?sortBy=secret", nil)
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal(dto.ErrorCodeBadRequest, env.Error.Code)

	w, _ = s.do(http.MethodGet, "/api/v1/divisiones/paginated?page=-1", nil)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *RouterTestSuite) TestDivisionListings() {
	s.createDivision("Engineering")
	arts := s.createDivision("Fine Arts")
	s.createDivision("Engineering Sciences")

	w, _ := s.do(http.MethodPatch, fmt.Sprintf("/api/v1/divisiones/%d/toggle-status", arts.ID), nil)
	s.Require().Equal(http.StatusOK, w.Code)

	var views []dto.DivisionView
	_, env := s.do(http.MethodGet, "/api/v1/divisiones", nil)
	s.decode(env.Data, &views)
	s.Len(views, 3)

	_, env = s.do(http.MethodGet, "/api/v1/divisiones/activas", nil)
	s.decode(env.Data, &views)
	s.Len(views, 2)

	_, env = s.do(http.MethodGet, "/api/v1/divisiones/search?nombre=ENGIN", nil)
	s.decode(env.Data, &views)
	s.Len(views, 2)

	var page pageBody[dto.DivisionView]
	w, env = s.do(http.MethodGet, "/api/v1/divisiones/paginated?page=1&size=2", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.decode(env.Data, &page)
	s.Len(page.Items, 1)
	s.Equal(int64(3), page.Pagination.TotalItems)
	s.Equal(2, page.Pagination.TotalPages)
	s.True(page.Pagination.Last)

	_, env = s.do(http.MethodGet, "/api/v1/divisiones/activas/paginated?sortBy=nombre", nil)
	s.decode(env.Data, &page)
	s.Require().Len(page.Items, 2)
	s.Equal("Engineering", page.Items[0].Name)

	_, env = s.do(http.MethodGet, "/api/v1/divisiones/search/paginated?nombre=arts", nil)
	s.decode(env.Data, &page)
	s.Len(page.Items, 1)

	w, env = s.do(http.MethodGet, "/api/v1/divisiones/paginated?page=922337203685477581&size=10", nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.decode(env.Data, &page)
	s.Empty(page.Items)
	s.Equal(int64(3), page.Pagination.TotalItems)
}

func (s *RouterTestSuite) TestCoordinatorFlow() {
	division := s.createDivision("Engineering")

	create := map[string]interface{}{
		"nombre":     "Ana",
		"apellido":   "López",
		"correo":     "a@x.com",
		"telefono":   "4421234567",
		"divisionId": division.ID,
	}
	w, env := s.do(http.MethodPost, "/api/v1/coordinadores", create)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var created dto.CoordinatorView
	s.decode(env.Data, &created)
	s.Equal("Engineering", created.DivisionName)
	s.True(created.Active)

	create["correo"] = "A@X.COM"
	w, _ = s.do(http.MethodPost, "/api/v1/coordinadores", create)
	s.Equal(http.StatusConflict, w.Code)

	create["correo"] = "b@x.com"
	create["divisionId"] = 999
	w, env = s.do(http.MethodPost, "/api/v1/coordinadores", create)
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal(dto.ErrorCodeValidationFailed, env.Error.Code)
	s.Equal("division does not exist", env.Error.Message)

	create["divisionId"] = division.ID
	create["telefono"] = "call me"
	w, _ = s.do(http.MethodPost, "/api/v1/coordinadores", create)
	s.Equal(http.StatusBadRequest, w.Code)

	create["telefono"] = "+12345678901234567890"
	w, env = s.do(http.MethodPost, "/api/v1/coordinadores", create)
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal(dto.ErrorCodeValidationFailed, env.Error.Code)

	update := map[string]interface{}{
		"nombre":     "Ana",
		"apellido":   "Ruiz",
		"correo":     "a@x.com",
		"divisionId": division.ID,
	}
	w, _ = s.do(http.MethodPut, fmt.Sprintf("/api/v1/coordinadores/%d", created.ID), update)
	s.Equal(http.StatusBadRequest, w.Code, "activo is required on update")

	update["activo"] = false
	w, env = s.do(http.MethodPut, fmt.Sprintf("/api/v1/coordinadores/%d", created.ID), update)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var updated dto.CoordinatorView
	s.decode(env.Data, &updated)
	s.Equal("Ruiz", updated.LastName)
	s.False(updated.Active)

	var views []dto.CoordinatorView
	_, env = s.do(http.MethodGet, fmt.Sprintf("/api/v1/coordinadores/division/%d", division.ID), nil)
	s.decode(env.Data, &views)
	s.Len(views, 1)

	_, env = s.do(http.MethodGet, "/api/v1/coordinadores/activos", nil)
	s.decode(env.Data, &views)
	s.Empty(views)

	w, _ = s.do(http.MethodPatch, fmt.Sprintf("/api/v1/coordinadores/%d/toggle-status", created.ID), nil)
	s.Equal(http.StatusOK, w.Code)

	var page pageBody[dto.CoordinatorView]
	_, env = s.do(http.MethodGet, fmt.Sprintf("/api/v1/coordinadores/division/%d/paginated?size=5", division.ID), nil)
	s.decode(env.Data, &page)
	s.Len(page.Items, 1)
	s.Equal(5, page.Pagination.PageSize)

	w, _ = s.do(http.MethodDelete, fmt.Sprintf("/api/v1/coordinadores/%d", created.ID), nil)
	s.Equal(http.StatusNoContent, w.Code)
	w, _ = s.do(http.MethodDelete, "/api/v1/coordinadores/999", nil)
	s.Equal(http.StatusNotFound, w.Code)
	w, _ = s.do(http.MethodGet, "/api/v1/coordinadores/999", nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *RouterTestSuite) TestHealthAndUnknownRoute() {
	w, env := s.do(http.MethodGet, "/api/v1/health", nil)
	s.Equal(http.StatusOK, w.Code)
	s.True(env.Success)

	w, _ = s.do(http.MethodGet, "/api/v1/nowhere", nil)
	s.Equal(http.StatusNotFound, w.Code)
}
