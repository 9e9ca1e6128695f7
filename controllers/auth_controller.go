package controllers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/anjha1/Fluenzy-AI-sub001/config"
	"github.com/anjha1/Fluenzy-AI-sub001/models"
	"github.com/anjha1/Fluenzy-AI-sub001/utils"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
}

func GoogleLogin(c *gin.Context) {
	// Random per-login state, verified on the callback to block forged
	// redirects
	state := uuid.New().String()
	session := sessions.Default(c)
	session.Set("oauth_state", state)
	if err := session.Save(); err != nil {
		utils.LogError("Failed to save OAuth state: %v", err)
		utils.InternalServerError(c, "Failed to start Google login", nil)
		return
	}

	c.Redirect(http.StatusTemporaryRedirect, config.GoogleOAuthConfig.AuthCodeURL(state))
}

func GoogleCallback(c *gin.Context) {
	session := sessions.Default(c)
	storedState, _ := session.Get("oauth_state").(string)
	session.Delete("oauth_state")
	if err := session.Save(); err != nil {
		utils.LogError("Failed to clear OAuth state: %v", err)
	}

	if storedState == "" || c.Query("state") != storedState {
		utils.LogError("OAuth state mismatch on Google callback")
		utils.BadRequest(c, "Invalid OAuth state", nil)
		return
	}

	code := c.Query("code")
	if code == "" {
		utils.BadRequest(c, "No code provided", nil)
		return
	}

	token, err := config.GoogleOAuthConfig.Exchange(c, code)
	if err != nil {
		utils.InternalServerError(c, "Failed to exchange token", err.Error())
		return
	}

	resp, err := http.Get("https://www.googleapis.com/oauth2/v2/userinfo?access_token=" + token.AccessToken)
	if err != nil {
		utils.InternalServerError(c, "Failed to get user info", err.Error())
		return
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		utils.InternalServerError(c, "Failed to read response", err.Error())
		return
	}

	var googleUser GoogleUserInfo
	if err := json.Unmarshal(data, &googleUser); err != nil {
		utils.InternalServerError(c, "Failed to parse user info", err.Error())
		return
	}

	var user models.User
	if err := config.DB.Where("email = ?", googleUser.Email).First(&user).Error; err != nil {
		// First login via Google creates the account, already verified
		user = models.User{
			Username:   googleUser.Email,
			Email:      googleUser.Email,
			FirstName:  googleUser.GivenName,
			LastName:   googleUser.FamilyName,
			Role:       "USER",
			Plan:       utils.PlanFree,
			IsVerified: true,
			GoogleID:   googleUser.ID,
		}

		// Google accounts get a random local password they never use
		password := googleUser.ID[:8] + fmt.Sprintf("%d", time.Now().Unix())
		hashedPassword, err := utils.HashPassword(password)
		if err != nil {
			utils.InternalServerError(c, "Failed to hash password", err.Error())
			return
		}
		user.Password = hashedPassword

		if err := config.DB.Create(&user).Error; err != nil {
			utils.InternalServerError(c, "Failed to create user", err.Error())
			return
		}
		utils.LogInfo("Created user ID: %d via Google login", user.ID)
	}

	if user.IsDisabled {
		utils.Forbidden(c, "Account is disabled")
		return
	}

	tokenString, err := utils.GenerateToken(&user)
	if err != nil {
		utils.InternalServerError(c, "Failed to generate token", err.Error())
		return
	}

	redirectURL := fmt.Sprintf("%s?token=%s&user=%s",
		os.Getenv("FRONTEND_URL"),
		url.QueryEscape(tokenString),
		url.QueryEscape(fmt.Sprintf(`{"id":%d,"email":"%s","plan":"%s"}`,
			user.ID, user.Email, user.Plan)))

	c.Redirect(http.StatusTemporaryRedirect, redirectURL)
}
