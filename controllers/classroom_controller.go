package controllers

import (
	"net/http"

	"essayhub/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CreateClassroomRequest struct {
	Name string `json:"name" binding:"required"`
}

type AddStudentRequest struct {
	Email string `json:"email" binding:"required,email"`
}

func CreateClassroom(c *gin.Context) {
	userID, role := currentUser(c)

	if err := policy.CanManageClassrooms(role); err != nil {
		respondError(c, err)
		return
	}

	var req CreateClassroomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Classroom name is required"})
		return
	}

	teacherOID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user id"})
		return
	}

	classroom := &models.Classroom{Name: req.Name, TeacherID: teacherOID}
	if err := store.CreateClassroom(c.Request.Context(), classroom); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, classroom)
}

// ListClassrooms returns classrooms run by a teacher, or the ones a
// student is enrolled in.
func ListClassrooms(c *gin.Context) {
	userID, role := currentUser(c)
	ctx := c.Request.Context()

	if role == models.RoleTeacher {
		classrooms, err := store.ListClassroomsByTeacher(ctx, userID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, classrooms)
		return
	}

	classrooms, err := store.ListClassroomsByStudent(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, classrooms)
}

// ownedClassroom loads the classroom and checks the caller runs it.
func ownedClassroom(c *gin.Context) (string, bool) {
	userID, role := currentUser(c)

	if err := policy.CanManageClassrooms(role); err != nil {
		respondError(c, err)
		return "", false
	}
	classroom, err := store.GetClassroom(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return "", false
	}
	if classroom.TeacherID.Hex() != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not run this classroom"})
		return "", false
	}
	return classroom.ID.Hex(), true
}

// GetClassroom returns one classroom with its roster.
func GetClassroom(c *gin.Context) {
	classroomID, ok := ownedClassroom(c)
	if !ok {
		return
	}

	classroom, err := store.GetClassroom(c.Request.Context(), classroomID)
	if err != nil {
		respondError(c, err)
		return
	}
	students, err := store.ListStudents(c.Request.Context(), classroomID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"classroom": classroom, "students": students})
}

// DeleteClassroom removes the classroom and its enrollments; the
// students' essays stay, unlinked from the classroom.
func DeleteClassroom(c *gin.Context) {
	classroomID, ok := ownedClassroom(c)
	if !ok {
		return
	}

	if err := store.DeleteClassroom(c.Request.Context(), classroomID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Classroom deleted"})
}

func AddStudent(c *gin.Context) {
	classroomID, ok := ownedClassroom(c)
	if !ok {
		return
	}

	var req AddStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Student email is required"})
		return
	}

	student, err := store.GetUserByEmail(c.Request.Context(), req.Email)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Student not found"})
		return
	}
	if student.Role != models.RoleStudent {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User is not a student"})
		return
	}

	enrollment, err := store.AddEnrollment(c.Request.Context(), classroomID, student.ID.Hex())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, enrollment)
}

// RemoveStudent drops a student's enrollment from the classroom.
func RemoveStudent(c *gin.Context) {
	classroomID, ok := ownedClassroom(c)
	if !ok {
		return
	}

	if err := store.RemoveEnrollment(c.Request.Context(), classroomID, c.Param("studentId")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Student removed from classroom"})
}

func ListStudents(c *gin.Context) {
	classroomID, ok := ownedClassroom(c)
	if !ok {
		return
	}

	students, err := store.ListStudents(c.Request.Context(), classroomID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, students)
}

func ListClassroomEssays(c *gin.Context) {
	classroomID, ok := ownedClassroom(c)
	if !ok {
		return
	}

	essays, err := store.ListEssaysByClassroom(c.Request.Context(), classroomID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, essays)
}

func GetClassroomStats(c *gin.Context) {
	classroomID, ok := ownedClassroom(c)
	if !ok {
		return
	}

	stats, err := store.GetClassroomStats(c.Request.Context(), classroomID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
