package controllers

import (
	"net/http"

	"essayhub/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CreateEvaluationRequest struct {
	EssayID    string `json:"essayId" binding:"required"`
	Competency int    `json:"competency" binding:"required"`
	Score      *int   `json:"score" binding:"required"`
	Comment    string `json:"comment"`
}

type UpdateEvaluationRequest struct {
	Competency int    `json:"competency" binding:"required"`
	Score      *int   `json:"score" binding:"required"`
	Comment    string `json:"comment"`
}

// CreateEvaluation records one competency grade. The aggregator
// validates bounds and uniqueness and recomputes the final score.
func CreateEvaluation(c *gin.Context) {
	userID, role := currentUser(c)
	ctx := c.Request.Context()

	var req CreateEvaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	essay, err := store.GetEssay(ctx, req.EssayID)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := policy.CanGrade(ctx, userID, role, essay); err != nil {
		respondError(c, err)
		return
	}

	reviewerOID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user id"})
		return
	}

	evaluation := &models.Evaluation{
		EssayID:    essay.ID,
		ReviewerID: reviewerOID,
		Competency: req.Competency,
		Score:      *req.Score,
		Comment:    req.Comment,
	}
	if err := aggregator.CreateEvaluation(ctx, evaluation); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, evaluation)
}

// ListEvaluations returns every evaluation of an essay.
func ListEvaluations(c *gin.Context) {
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
	c.JSON(http.StatusOK, evaluations)
}

func UpdateEvaluation(c *gin.Context) {
	userID, role := currentUser(c)
	ctx := c.Request.Context()

	var req UpdateEvaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	existing, err := store.GetEvaluation(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	essay, err := store.GetEssay(ctx, existing.EssayID.Hex())
	if err != nil {
		respondError(c, err)
		return
	}
	if err := policy.CanGrade(ctx, userID, role, essay); err != nil {
		respondError(c, err)
		return
	}

	updated, err := aggregator.UpdateEvaluation(ctx, existing.ID.Hex(), req.Competency, *req.Score, req.Comment)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func DeleteEvaluation(c *gin.Context) {
	userID, role := currentUser(c)
	ctx := c.Request.Context()

	existing, err := store.GetEvaluation(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	essay, err := store.GetEssay(ctx, existing.EssayID.Hex())
	if err != nil {
		respondError(c, err)
		return
	}
	if err := policy.CanGrade(ctx, userID, role, essay); err != nil {
		respondError(c, err)
		return
	}

	if _, err := aggregator.DeleteEvaluation(ctx, existing.ID.Hex()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Evaluation deleted"})
}
