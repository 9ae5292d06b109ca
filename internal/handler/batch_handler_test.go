package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruet-cse/class-routine-api/internal/models"
	"github.com/ruet-cse/class-routine-api/internal/service"
)

type batchRepoStub struct {
	batches []models.Batch
}

func (s *batchRepoStub) List(ctx context.Context, filter models.BatchFilter) ([]models.Batch, int, error) {
	return s.batches, len(s.batches), nil
}

func (s *batchRepoStub) ListAll(ctx context.Context) ([]models.Batch, error) {
	return s.batches, nil
}

func (s *batchRepoStub) FindByID(ctx context.Context, id string) (*models.Batch, error) {
	for i := range s.batches {
		if s.batches[i].ID == id {
			b := s.batches[i]
			return &b, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *batchRepoStub) Create(ctx context.Context, batch *models.Batch) error {
	s.batches = append(s.batches, *batch)
	return nil
}

func (s *batchRepoStub) Update(ctx context.Context, batch *models.Batch) error { return nil }

func (s *batchRepoStub) Delete(ctx context.Context, id string) error { return nil }

func newBatchHandler(repo *batchRepoStub) *BatchHandler {
	return NewBatchHandler(service.NewBatchService(repo, nil, nil, nil, nil, 0))
}

func TestBatchHandlerList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	schedule, conflicts := models.NewEmptyGrids()
	handler := newBatchHandler(&batchRepoStub{batches: []models.Batch{
		{ID: "b1", Year: "2nd", Semester: "Odd", Name: "CSE 21", Schedule: schedule, Conflicts: conflicts},
	}})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/batches?year=2nd", nil)
	c.Request = req

	handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data       []models.Batch     `json:"data"`
		Pagination *models.Pagination `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, "CSE 21", envelope.Data[0].Name)
	require.NotNil(t, envelope.Pagination)
	assert.Equal(t, 1, envelope.Pagination.TotalCount)
}

func TestBatchHandlerGetNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newBatchHandler(&batchRepoStub{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/batches/missing", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	handler.Get(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestBatchHandlerCreate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newBatchHandler(&batchRepoStub{})

	body, _ := json.Marshal(service.CreateBatchRequest{Year: "2nd", Semester: "Odd", Name: "CSE 21"})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/batches", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)

	var envelope struct {
		Data models.Batch `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.NotEmpty(t, envelope.Data.Schedule)
	assert.Equal(t, "#ffffff", envelope.Data.Color)
}

func TestBatchHandlerCreateInvalid(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newBatchHandler(&batchRepoStub{})

	body, _ := json.Marshal(service.CreateBatchRequest{Year: "5th", Semester: "Odd", Name: "x"})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/batches", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Create(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBatchHandlerDelete(t *testing.T) {
	gin.SetMode(gin.TestMode)
	schedule, conflicts := models.NewEmptyGrids()
	handler := newBatchHandler(&batchRepoStub{batches: []models.Batch{
		{ID: "b1", Schedule: schedule, Conflicts: conflicts},
	}})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodDelete, "/batches/b1", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "b1"}}

	handler.Delete(c)
	c.Writer.WriteHeaderNow()
	require.Equal(t, http.StatusNoContent, w.Code)
}
