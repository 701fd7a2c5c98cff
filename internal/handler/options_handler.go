package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/planovate/planovate-backend/internal/repository"
	"github.com/planovate/planovate-backend/internal/response"
	"github.com/planovate/planovate-backend/internal/service"
	"github.com/planovate/planovate-backend/internal/validator"
)

// OptionsHandler exposes the suggestion lists the grid editor
// autocompletes from.
type OptionsHandler struct {
	optionsService *service.OptionsService
}

// NewOptionsHandler creates a new OptionsHandler.
func NewOptionsHandler(optionsService *service.OptionsService) *OptionsHandler {
	return &OptionsHandler{optionsService: optionsService}
}

// ListTeachers godoc
// GET /api/v1/options/teachers
func (h *OptionsHandler) ListTeachers(c *gin.Context) {
	names, err := h.optionsService.TeacherOptions(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"teachers": names})
}

// ListRooms godoc
// GET /api/v1/options/rooms
func (h *OptionsHandler) ListRooms(c *gin.Context) {
	names, err := h.optionsService.RoomOptions(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"rooms": names})
}

// ListCourses godoc
// GET /api/v1/options/courses
func (h *OptionsHandler) ListCourses(c *gin.Context) {
	names, err := h.optionsService.CourseOptions(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"courses": names})
}

// ListSemesters godoc
// GET /api/v1/options/semesters
// Semesters are derived from course rows, not stored independently.
func (h *OptionsHandler) ListSemesters(c *gin.Context) {
	semesters, err := h.optionsService.SemesterOptions(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"semesters": semesters})
}

// CreateNameRequest seeds a teacher or room suggestion entry.
type CreateNameRequest struct {
	Name string `json:"name" binding:"required,nonblank,max=180"`
}

// CreateTeacher godoc
// POST /api/v1/options/teachers
func (h *OptionsHandler) CreateTeacher(c *gin.Context) {
	var req CreateNameRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	t, err := h.optionsService.AddTeacher(c.Request.Context(), req.Name)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateName) {
			response.Fail(c, http.StatusConflict, response.ErrDuplicate)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"teacher": t})
}

// CreateRoom godoc
// POST /api/v1/options/rooms
func (h *OptionsHandler) CreateRoom(c *gin.Context) {
	var req CreateNameRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	r, err := h.optionsService.AddRoom(c.Request.Context(), req.Name)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateName) {
			response.Fail(c, http.StatusConflict, response.ErrDuplicate)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"room": r})
}

// CreateCourseRequest seeds a course suggestion entry.
type CreateCourseRequest struct {
	Name     string `json:"name" binding:"required,nonblank,max=180"`
	Code     string `json:"code" binding:"max=32"`
	Semester string `json:"semester" binding:"max=32"`
}

// CreateCourse godoc
// POST /api/v1/options/courses
func (h *OptionsHandler) CreateCourse(c *gin.Context) {
	var req CreateCourseRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	course, err := h.optionsService.AddCourse(c.Request.Context(), req.Name, req.Code, req.Semester)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateName) {
			response.Fail(c, http.StatusConflict, response.ErrDuplicate)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"course": course})
}
