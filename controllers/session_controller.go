package controllers

import (
	"strconv"
	"time"

	"github.com/anjha1/Fluenzy-AI-sub001/config"
	"github.com/anjha1/Fluenzy-AI-sub001/models"
	"github.com/anjha1/Fluenzy-AI-sub001/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// StartSessionRequest represents the request body for starting a session
type StartSessionRequest struct {
	Module        string `json:"module" binding:"required"`
	TargetCompany string `json:"target_company"`
	TargetRole    string `json:"target_role"`
}

// StartSession consumes one unit of the user's quota and opens a session
func StartSession(c *gin.Context) {
	utils.LogInfo("StartSession called")

	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	var req StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid session request for user ID: %d: %v", user.ID, err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	if !utils.IsValidModule(req.Module) {
		utils.LogError("Unknown module %q requested by user ID: %d", req.Module, user.ID)
		utils.BadRequest(c, "Unknown training module", nil)
		return
	}

	// Entitlement check and consume happen as one atomic step
	usage, err := utils.ConsumeUsage(config.DB, &user, req.Module)
	if err != nil {
		utils.LogError("Usage check failed for user ID: %d, module: %s: %v", user.ID, req.Module, err)
		utils.InternalServerError(c, "Failed to check usage limit", nil)
		return
	}
	if !usage.Allowed {
		utils.LogError("Usage limit reached for user ID: %d, module: %s", user.ID, req.Module)
		utils.Forbidden(c, "You have reached your usage limit for this module. Upgrade your plan to continue.")
		return
	}

	session := models.Session{
		UserID:        user.ID,
		Module:        req.Module,
		TargetCompany: req.TargetCompany,
		TargetRole:    req.TargetRole,
		StartedAt:     time.Now(),
		Status:        utils.StatusIncomplete,
	}
	if err := config.DB.Create(&session).Error; err != nil {
		utils.LogError("Failed to create session for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to start session", nil)
		return
	}
	utils.LogInfo("Started session ID: %d for user ID: %d, module: %s", session.ID, user.ID, req.Module)

	utils.Created(c, "Session started", gin.H{
		"session_id": session.ID,
		"module":     session.Module,
		"started_at": session.StartedAt,
		"usage":      usage,
	})
}

// SubmitTurn is one Q&A exchange in a session submission. Evaluator
// sub-scores are on a 0-10 scale and any of them may be missing.
type SubmitTurn struct {
	TurnNumber        int      `json:"turn_number" binding:"required,min=1"`
	Question          string   `json:"question"`
	UserAnswer        string   `json:"user_answer"`
	Clarity           *float64 `json:"clarity"`
	Relevance         *float64 `json:"relevance"`
	Grammar           *float64 `json:"grammar"`
	Confidence        *float64 `json:"confidence"`
	TechnicalAccuracy *float64 `json:"technical_accuracy"`
	QuestionScore     *float64 `json:"question_score"`
	Feedback          string   `json:"feedback"`
	IdealAnswer       string   `json:"ideal_answer"`
}

// SubmitSessionRequest represents the request body for submitting a session
type SubmitSessionRequest struct {
	Turns           []SubmitTurn `json:"turns" binding:"required"`
	DurationMinutes int          `json:"duration_minutes"`
}

// SubmitSession appends the transcript turns, computes the session score and
// finalizes the session. A finalized session is immutable.
func SubmitSession(c *gin.Context) {
	utils.LogInfo("SubmitSession called")

	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	sessionID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid session ID", nil)
		return
	}

	var req SubmitSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid submit request for user ID: %d: %v", user.ID, err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	var session models.Session
	if err := config.DB.Where("id = ? AND user_id = ?", sessionID, user.ID).First(&session).Error; err != nil {
		utils.LogError("Session not found - ID: %d, user ID: %d", sessionID, user.ID)
		utils.NotFound(c, "Session not found")
		return
	}

	if session.EndedAt != nil {
		utils.LogError("Attempt to resubmit finalized session ID: %d", session.ID)
		utils.BadRequest(c, "Session has already been submitted", nil)
		return
	}

	transcripts := make([]models.Transcript, 0, len(req.Turns))
	for _, turn := range req.Turns {
		transcripts = append(transcripts, models.Transcript{
			SessionID:         session.ID,
			TurnNumber:        turn.TurnNumber,
			Question:          turn.Question,
			UserAnswer:        turn.UserAnswer,
			Clarity:           turn.Clarity,
			Relevance:         turn.Relevance,
			Grammar:           turn.Grammar,
			Confidence:        turn.Confidence,
			TechnicalAccuracy: turn.TechnicalAccuracy,
			QuestionScore:     turn.QuestionScore,
			Feedback:          turn.Feedback,
			IdealAnswer:       turn.IdealAnswer,
		})
	}

	result := utils.ScoreSession(transcripts)

	now := time.Now()
	duration := req.DurationMinutes
	if duration == 0 {
		duration = int(now.Sub(session.StartedAt).Minutes())
	}
	// stored aggregate is canonical percent / 100
	aggregate := float64(result.Score) / 100

	tx := config.DB.Begin()
	if tx.Error != nil {
		utils.LogError("Failed to start transaction for session ID: %d: %v", session.ID, tx.Error)
		utils.InternalServerError(c, "Failed to start transaction", nil)
		return
	}

	if len(transcripts) > 0 {
		if err := tx.Create(&transcripts).Error; err != nil {
			tx.Rollback()
			utils.LogError("Failed to save transcripts for session ID: %d: %v", session.ID, err)
			utils.InternalServerError(c, "Failed to save transcripts", nil)
			return
		}
	}

	if err := tx.Model(&session).Updates(map[string]interface{}{
		"ended_at":         now,
		"duration_minutes": duration,
		"aggregate_score":  aggregate,
		"status":           result.Status,
	}).Error; err != nil {
		tx.Rollback()
		utils.LogError("Failed to finalize session ID: %d: %v", session.ID, err)
		utils.InternalServerError(c, "Failed to finalize session", nil)
		return
	}

	if err := tx.Commit().Error; err != nil {
		utils.LogError("Failed to commit transaction for session ID: %d: %v", session.ID, err)
		utils.InternalServerError(c, "Failed to commit transaction", nil)
		return
	}
	utils.LogInfo("Finalized session ID: %d with score: %d (%s)", session.ID, result.Score, result.Status)

	utils.Success(c, "Session submitted successfully", gin.H{
		"session_id": session.ID,
		"score":      result.Score,
		"status":     result.Status,
		"sub_scores": result.SubScores,
	})
}

// ListSessions returns the user's sessions, newest first
func ListSessions(c *gin.Context) {
	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	pagination := utils.NewPagination(c)

	var total int64
	if err := config.DB.Model(&models.Session{}).Where("user_id = ?", user.ID).Count(&total).Error; err != nil {
		utils.LogError("Failed to count sessions for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to fetch sessions", nil)
		return
	}
	pagination.SetTotal(total)

	var sessions []models.Session
	if err := config.DB.Where("user_id = ?", user.ID).
		Order("started_at DESC").
		Limit(pagination.Limit).Offset(pagination.Offset).
		Find(&sessions).Error; err != nil {
		utils.LogError("Failed to fetch sessions for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to fetch sessions", nil)
		return
	}

	items := make([]gin.H, 0, len(sessions))
	for _, s := range sessions {
		items = append(items, sessionSummary(s))
	}

	utils.SuccessWithPagination(c, "Sessions retrieved successfully", items, pagination)
}

// GetSessionDetails returns one session with its transcripts
func GetSessionDetails(c *gin.Context) {
	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	sessionID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid session ID", nil)
		return
	}

	var session models.Session
	if err := config.DB.Preload("Transcripts", func(db *gorm.DB) *gorm.DB {
		return db.Order("turn_number ASC")
	}).Where("id = ? AND user_id = ?", sessionID, user.ID).First(&session).Error; err != nil {
		utils.LogError("Session not found - ID: %d, user ID: %d", sessionID, user.ID)
		utils.NotFound(c, "Session not found")
		return
	}

	detail := sessionSummary(session)
	detail["transcripts"] = session.Transcripts

	utils.Success(c, "Session retrieved successfully", detail)
}

// sessionSummary converts a stored session to its API shape; the aggregate
// score is published percent-scale
func sessionSummary(s models.Session) gin.H {
	var score *float64
	if s.AggregateScore != nil {
		percent := *s.AggregateScore * 100
		score = &percent
	}
	return gin.H{
		"id":               s.ID,
		"module":           s.Module,
		"target_company":   s.TargetCompany,
		"target_role":      s.TargetRole,
		"started_at":       s.StartedAt,
		"ended_at":         s.EndedAt,
		"duration_minutes": s.DurationMinutes,
		"score":            score,
		"status":           s.Status,
	}
}
