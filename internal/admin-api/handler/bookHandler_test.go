package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"ebookstore/internal/admin-api/handler"
	"ebookstore/internal/admin-api/models"
	"ebookstore/internal/admin-api/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// --- MOCK SERVICE ---

type MockBookService struct {
	mock.Mock
}

func (m *MockBookService) GetAll(ctx context.Context, page, pageSize int) ([]models.Book, int64, error) {
	args := m.Called(ctx, page, pageSize)
	return args.Get(0).([]models.Book), args.Get(1).(int64), args.Error(2)
}

func (m *MockBookService) GetByID(ctx context.Context, id string) (*models.Book, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Book), args.Error(1)
}

func (m *MockBookService) Search(ctx context.Context, query string) ([]models.Book, error) {
	args := m.Called(ctx, query)
	return args.Get(0).([]models.Book), args.Error(1)
}

func (m *MockBookService) Create(ctx context.Context, b *models.Book) ([]string, error) {
	args := m.Called(ctx, b)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockBookService) Update(ctx context.Context, id string, b *models.Book) ([]string, error) {
	args := m.Called(ctx, id, b)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockBookService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// --- SETUP ---

func setupBookRouter(mockService *MockBookService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := handler.NewBookHandler(mockService)
	h.RegisterRoutes(r.Group("/api/admin/books"))
	return r
}

// --- TESTS ---

func TestBookHandler_List(t *testing.T) {
	mockService := new(MockBookService)
	r := setupBookRouter(mockService)

	books := []models.Book{
		{ID: "b1", Title: "Dune", CategoryNames: models.StringList{"Sci-Fi"}},
		{ID: "b2", Title: "Emma", Status: models.BookStatusPublished},
	}

	t.Run("Success", func(t *testing.T) {
		mockService.On("GetAll", mock.Anything, 1, 20).Return(books, int64(42), nil).Once()

		req, _ := http.NewRequest(http.MethodGet, "/api/admin/books", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var response map[string]interface{}
		json.Unmarshal(w.Body.Bytes(), &response)

		data := response["data"].([]interface{})
		assert.Len(t, data, 2)
		pagination := response["pagination"].(map[string]interface{})
		assert.Equal(t, float64(42), pagination["total"])
		mockService.AssertExpectations(t)
	})

	t.Run("CustomPagination", func(t *testing.T) {
		mockService.On("GetAll", mock.Anything, 3, 10).Return([]models.Book{}, int64(0), nil).Once()

		req, _ := http.NewRequest(http.MethodGet, "/api/admin/books?page=3&page_size=10", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})
}

func TestBookHandler_Get(t *testing.T) {
	mockService := new(MockBookService)
	r := setupBookRouter(mockService)

	t.Run("Success", func(t *testing.T) {
		book := &models.Book{ID: "b1", Title: "Dune"}
		mockService.On("GetByID", mock.Anything, "b1").Return(book, nil).Once()

		req, _ := http.NewRequest(http.MethodGet, "/api/admin/books/b1", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var response map[string]interface{}
		json.Unmarshal(w.Body.Bytes(), &response)
		assert.Equal(t, "Dune", response["title"])
	})

	t.Run("NotFound", func(t *testing.T) {
		mockService.On("GetByID", mock.Anything, "missing").Return(nil, gorm.ErrRecordNotFound).Once()

		req, _ := http.NewRequest(http.MethodGet, "/api/admin/books/missing", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestBookHandler_Create(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := new(MockBookService)
		r := setupBookRouter(mockService)

		mockService.On("Create", mock.Anything, mock.AnythingOfType("*models.Book")).
			Return([]string{}, nil).Once()

		body, _ := json.Marshal(map[string]interface{}{
			"title":          "Dune",
			"category_names": []string{"Sci-Fi"},
		})
		req, _ := http.NewRequest(http.MethodPost, "/api/admin/books", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		var response map[string]interface{}
		json.Unmarshal(w.Body.Bytes(), &response)
		assert.NotContains(t, response, "warning")
		mockService.AssertExpectations(t)
	})

	t.Run("MissingCategoriesBecomeWarning", func(t *testing.T) {
		mockService := new(MockBookService)
		r := setupBookRouter(mockService)

		mockService.On("Create", mock.Anything, mock.AnythingOfType("*models.Book")).
			Return([]string{"Obscure"}, nil).Once()

		body, _ := json.Marshal(map[string]interface{}{
			"title":          "Dune",
			"category_names": []string{"Sci-Fi", "Obscure"},
		})
		req, _ := http.NewRequest(http.MethodPost, "/api/admin/books", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		var response map[string]interface{}
		json.Unmarshal(w.Body.Bytes(), &response)
		assert.Contains(t, response["warning"], "Obscure")
	})

	t.Run("TitleRequired", func(t *testing.T) {
		mockService := new(MockBookService)
		r := setupBookRouter(mockService)

		body, _ := json.Marshal(map[string]interface{}{"writer": "Anonymous"})
		req, _ := http.NewRequest(http.MethodPost, "/api/admin/books", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "Create")
	})
}

func TestBookHandler_Update(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := new(MockBookService)
		r := setupBookRouter(mockService)

		existing := &models.Book{ID: "b1", Title: "Dune", Writer: "Frank Herbert"}
		mockService.On("GetByID", mock.Anything, "b1").Return(existing, nil).Once()
		mockService.On("Update", mock.Anything, "b1", mock.MatchedBy(func(b *models.Book) bool {
			// untouched fields survive a partial update
			return b.Title == "Dune Messiah" && b.Writer == "Frank Herbert"
		})).Return([]string{}, nil).Once()

		body, _ := json.Marshal(map[string]interface{}{"title": "Dune Messiah"})
		req, _ := http.NewRequest(http.MethodPut, "/api/admin/books/b1", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("ValidationErrorIsBadRequest", func(t *testing.T) {
		mockService := new(MockBookService)
		r := setupBookRouter(mockService)

		existing := &models.Book{ID: "b1", Title: "Dune"}
		mockService.On("GetByID", mock.Anything, "b1").Return(existing, nil).Once()
		mockService.On("Update", mock.Anything, "b1", mock.Anything).
			Return(nil, service.ErrInvalidStatus).Once()

		body, _ := json.Marshal(map[string]interface{}{"status": "bogus"})
		req, _ := http.NewRequest(http.MethodPut, "/api/admin/books/b1", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertExpectations(t)
	})
}

func TestBookHandler_Delete(t *testing.T) {
	mockService := new(MockBookService)
	r := setupBookRouter(mockService)

	t.Run("Success", func(t *testing.T) {
		mockService.On("Delete", mock.Anything, "b1").Return(nil).Once()

		req, _ := http.NewRequest(http.MethodDelete, "/api/admin/books/b1", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("NotFound", func(t *testing.T) {
		mockService.On("Delete", mock.Anything, "missing").Return(gorm.ErrRecordNotFound).Once()

		req, _ := http.NewRequest(http.MethodDelete, "/api/admin/books/missing", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestBookHandler_Search(t *testing.T) {
	mockService := new(MockBookService)
	r := setupBookRouter(mockService)

	t.Run("Success", func(t *testing.T) {
		results := []models.Book{{ID: "b1", Title: "Dune"}}
		mockService.On("Search", mock.Anything, "dune").Return(results, nil).Once()

		req, _ := http.NewRequest(http.MethodGet, "/api/admin/books/search?q=dune", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var response map[string]interface{}
		json.Unmarshal(w.Body.Bytes(), &response)
		assert.Equal(t, float64(1), response["total"])
	})

	t.Run("MissingQuery", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/api/admin/books/search", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "Search")
	})

	t.Run("ServiceError", func(t *testing.T) {
		mockService.On("Search", mock.Anything, "boom").
			Return([]models.Book{}, errors.New("db down")).Once()

		req, _ := http.NewRequest(http.MethodGet, "/api/admin/books/search?q=boom", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
