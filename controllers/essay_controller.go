package controllers

import (
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"essayhub/models"
	"essayhub/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CreateEssayRequest struct {
	Title       string  `json:"title" binding:"required"`
	Text        *string `json:"text"`
	ClassroomID *string `json:"classroomId"`
}

type UpdateEssayRequest struct {
	Title string  `json:"title"`
	Text  *string `json:"text"`
}

// parseEssayPayload reads the creation payload from either a JSON body
// or a multipart form with an optional scanned image. On failure the
// response is already written.
func parseEssayPayload(c *gin.Context) (*CreateEssayRequest, string, bool) {
	var req CreateEssayRequest
	imagePath := ""
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		req.Title = c.PostForm("title")
		if text := c.PostForm("text"); text != "" {
			req.Text = &text
		}
		if classroomID := c.PostForm("classroomId"); classroomID != "" {
			req.ClassroomID = &classroomID
		}
		if file, err := c.FormFile("file"); err == nil {
			imagePath = filepath.Join(uploadDir, uuid.NewString()+filepath.Ext(file.Filename))
			if err := c.SaveUploadedFile(file, imagePath); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store upload"})
				return nil, "", false
			}
		}
		if req.Title == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Title is required"})
			return nil, "", false
		}
	} else {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
			return nil, "", false
		}
	}
	return &req, imagePath, true
}

// createEssay persists the essay for the given author and kicks off
// analysis when text is already present.
func createEssay(c *gin.Context, req *CreateEssayRequest, imagePath string, authorID, classroomID *primitive.ObjectID) {
	essay := &models.Essay{
		Title:       req.Title,
		AuthorID:    *authorID,
		ClassroomID: classroomID,
		ImagePath:   imagePath,
		Text:        req.Text,
	}

	if err := store.CreateEssay(c.Request.Context(), essay); err != nil {
		respondError(c, err)
		return
	}

	if essay.Text != nil && *essay.Text != "" {
		orchestrator.InvalidateAndRestart(essay.ID.Hex(), *essay.Text)
	}

	c.JSON(http.StatusCreated, essay)
}

// CreateEssay submits an essay for the caller. Text may be absent until
// the external OCR/correction pipeline supplies it; analysis starts as
// soon as text exists.
func CreateEssay(c *gin.Context) {
	userID, _ := currentUser(c)

	req, imagePath, ok := parseEssayPayload(c)
	if !ok {
		return
	}

	authorOID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user id"})
		return
	}

	var classroomOID *primitive.ObjectID
	if req.ClassroomID != nil {
		classOID, err := primitive.ObjectIDFromHex(*req.ClassroomID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid classroom id"})
			return
		}
		enrolled, err := store.IsEnrolled(c.Request.Context(), *req.ClassroomID, userID)
		if err != nil {
			respondError(c, err)
			return
		}
		classroom, cerr := store.GetClassroom(c.Request.Context(), *req.ClassroomID)
		if cerr != nil {
			respondError(c, cerr)
			return
		}
		if !enrolled && classroom.TeacherID.Hex() != userID {
			c.JSON(http.StatusForbidden, gin.H{"error": "Not a member of this classroom"})
			return
		}
		classroomOID = &classOID
	}

	createEssay(c, req, imagePath, &authorOID, classroomOID)
}

// CreateEssayForStudent lets a teacher submit an essay on behalf of a
// student, e.g. a paper scan collected in class. The student must sit
// in one of the teacher's classrooms.
func CreateEssayForStudent(c *gin.Context) {
	userID, role := currentUser(c)
	ctx := c.Request.Context()

	if role != models.RoleTeacher {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only teachers can submit essays for students"})
		return
	}

	student, err := store.GetUser(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if student.Role != models.RoleStudent {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User is not a student"})
		return
	}

	req, imagePath, ok := parseEssayPayload(c)
	if !ok {
		return
	}

	var classroomOID *primitive.ObjectID
	if req.ClassroomID != nil {
		classOID, err := primitive.ObjectIDFromHex(*req.ClassroomID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid classroom id"})
			return
		}
		classroom, err := store.GetClassroom(ctx, *req.ClassroomID)
		if err != nil {
			respondError(c, err)
			return
		}
		if classroom.TeacherID.Hex() != userID {
			c.JSON(http.StatusForbidden, gin.H{"error": "You do not run this classroom"})
			return
		}
		enrolled, err := store.IsEnrolled(ctx, *req.ClassroomID, student.ID.Hex())
		if err != nil {
			respondError(c, err)
			return
		}
		if !enrolled {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Student is not enrolled in this classroom"})
			return
		}
		classroomOID = &classOID
	} else {
		classrooms, err := store.ListClassroomsByTeacher(ctx, userID)
		if err != nil {
			respondError(c, err)
			return
		}
		taught := false
		for _, classroom := range classrooms {
			enrolled, err := store.IsEnrolled(ctx, classroom.ID.Hex(), student.ID.Hex())
			if err != nil {
				respondError(c, err)
				return
			}
			if enrolled {
				taught = true
				break
			}
		}
		if !taught {
			c.JSON(http.StatusForbidden, gin.H{"error": "Student is not in any of your classrooms"})
			return
		}
	}

	createEssay(c, req, imagePath, &student.ID, classroomOID)
}

// ListEssays returns the caller's essays; teachers see the essays of
// every classroom they run.
func ListEssays(c *gin.Context) {
	userID, role := currentUser(c)
	ctx := c.Request.Context()

	if role == models.RoleTeacher {
		classrooms, err := store.ListClassroomsByTeacher(ctx, userID)
		if err != nil {
			respondError(c, err)
			return
		}
		essays := []models.Essay{}
		for _, classroom := range classrooms {
			batch, err := store.ListEssaysByClassroom(ctx, classroom.ID.Hex())
			if err != nil {
				respondError(c, err)
				return
			}
			essays = append(essays, batch...)
		}
		c.JSON(http.StatusOK, essays)
		return
	}

	essays, err := store.ListEssaysByAuthor(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, essays)
}

func GetEssay(c *gin.Context) {
	userID, role := currentUser(c)
	ctx := c.Request.Context()

	essay, err := store.GetEssay(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if err := policy.CanView(ctx, userID, role, essay); err != nil {
		respondError(c, err)
		return
	}

	evaluations, err := store.GetEvaluations(ctx, essay.ID.Hex())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"essay": essay, "evaluations": evaluations})
}

// UpdateEssay edits title and/or text. A text change persists first and
// resets both scores, then invalidates the analysis registry and starts
// a fresh job; that order keeps a stale cache read from surfacing an
// outdated score.
func UpdateEssay(c *gin.Context) {
	userID, role := currentUser(c)
	ctx := c.Request.Context()

	var req UpdateEssayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	essay, err := store.GetEssay(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if err := policy.CanEdit(ctx, userID, role, essay); err != nil {
		respondError(c, err)
		return
	}

	if req.Text != nil {
		if err := store.UpdateEssayText(ctx, essay.ID.Hex(), req.Text, req.Title); err != nil {
			respondError(c, err)
			return
		}
		if *req.Text != "" {
			orchestrator.InvalidateAndRestart(essay.ID.Hex(), *req.Text)
		} else {
			orchestrator.Forget(essay.ID.Hex())
		}
	} else if req.Title != "" {
		if err := store.UpdateEssayTitle(ctx, essay.ID.Hex(), req.Title); err != nil {
			respondError(c, err)
			return
		}
	}

	updated, err := store.GetEssay(ctx, essay.ID.Hex())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteEssay removes the essay, its evaluations and any registry
// state. A job still in flight completes later as a harmless no-op.
func DeleteEssay(c *gin.Context) {
	userID, role := currentUser(c)
	ctx := c.Request.Context()

	essay, err := store.GetEssay(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if err := policy.CanDelete(ctx, userID, role, essay); err != nil {
		respondError(c, err)
		return
	}

	if err := store.DeleteEssay(ctx, essay.ID.Hex()); err != nil {
		respondError(c, err)
		return
	}
	orchestrator.Forget(essay.ID.Hex())

	if essay.ImagePath != "" {
		if err := os.Remove(essay.ImagePath); err != nil {
			log.Printf("Failed to remove upload %s: %v", essay.ImagePath, err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Essay deleted"})
}

// GetAnalysis returns the cached automated analysis or a running status
// while the background job works.
func GetAnalysis(c *gin.Context) {
	userID, role := currentUser(c)
	ctx := c.Request.Context()

	essay, err := store.GetEssay(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if err := policy.CanView(ctx, userID, role, essay); err != nil {
		respondError(c, err)
		return
	}
	if essay.Text == nil || *essay.Text == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Essay has no text to analyze yet"})
		return
	}

	outcome := orchestrator.RequestAnalysis(essay.ID.Hex(), *essay.Text)
	if outcome.Status == services.AnalysisCompleted {
		c.JSON(http.StatusOK, outcome)
		return
	}
	c.JSON(http.StatusAccepted, outcome)
}

// Reanalyze forces a fresh analysis, discarding any cached result or
// in-flight job.
func Reanalyze(c *gin.Context) {
	userID, role := currentUser(c)
	ctx := c.Request.Context()

	essay, err := store.GetEssay(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if err := policy.CanEdit(ctx, userID, role, essay); err != nil {
		respondError(c, err)
		return
	}
	if essay.Text == nil || *essay.Text == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Essay has no text to analyze yet"})
		return
	}

	orchestrator.InvalidateAndRestart(essay.ID.Hex(), *essay.Text)
	c.JSON(http.StatusAccepted, services.AnalysisOutcome{Status: services.AnalysisRunning})
}

// AnalysisSocket subscribes the caller to completion events for one
// essay.
func AnalysisSocket(c *gin.Context) {
	userID, role := currentUser(c)
	ctx := c.Request.Context()

	essay, err := store.GetEssay(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if err := policy.CanView(ctx, userID, role, essay); err != nil {
		respondError(c, err)
		return
	}

	notifier.Subscribe(c, essay.ID.Hex())
}
