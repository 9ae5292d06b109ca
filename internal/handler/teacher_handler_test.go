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

type teacherRepoStub struct {
	teachers map[string]*models.Teacher
	taken    bool
}

func (s *teacherRepoStub) List(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, int, error) {
	var out []models.Teacher
	for _, teacher := range s.teachers {
		out = append(out, *teacher)
	}
	return out, len(out), nil
}

func (s *teacherRepoStub) FindByID(ctx context.Context, id string) (*models.Teacher, error) {
	if teacher, ok := s.teachers[id]; ok {
		return teacher, nil
	}
	return nil, sql.ErrNoRows
}

func (s *teacherRepoStub) ExistsByShortName(ctx context.Context, shortName, excludeID string) (bool, error) {
	return s.taken, nil
}

func (s *teacherRepoStub) Create(ctx context.Context, teacher *models.Teacher) error { return nil }

func (s *teacherRepoStub) Update(ctx context.Context, teacher *models.Teacher) error { return nil }

func (s *teacherRepoStub) Delete(ctx context.Context, id string) error { return nil }

func newTeacherHandler(repo *teacherRepoStub) *TeacherHandler {
	return NewTeacherHandler(service.NewTeacherService(repo, nil, nil))
}

func teacherPayload() []byte {
	raw, _ := json.Marshal(service.CreateTeacherRequest{
		FullName:    "Abdul Basit Chowdhury",
		ShortName:   "ABC",
		Designation: "Professor",
		Department:  "CSE",
		University:  "RUET",
	})
	return raw
}

func TestTeacherHandlerList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newTeacherHandler(&teacherRepoStub{teachers: map[string]*models.Teacher{
		"t1": {ID: "t1", FullName: "Abdul Basit Chowdhury", ShortName: "ABC"},
	}})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/teachers", nil)
	c.Request = req

	handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data []models.Teacher `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, "ABC", envelope.Data[0].ShortName)
}

func TestTeacherHandlerCreate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newTeacherHandler(&teacherRepoStub{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/teachers", bytes.NewBuffer(teacherPayload()))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)
}

func TestTeacherHandlerCreateShortNameTaken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newTeacherHandler(&teacherRepoStub{taken: true})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/teachers", bytes.NewBuffer(teacherPayload()))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Create(c)
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestTeacherHandlerGetNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newTeacherHandler(&teacherRepoStub{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/teachers/missing", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	handler.Get(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestTeacherHandlerDelete(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newTeacherHandler(&teacherRepoStub{teachers: map[string]*models.Teacher{
		"t1": {ID: "t1", ShortName: "ABC"},
	}})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodDelete, "/teachers/t1", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "t1"}}

	handler.Delete(c)
	c.Writer.WriteHeaderNow()
	require.Equal(t, http.StatusNoContent, w.Code)
}
