package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"go-commerce-api/internal/application"
	"go-commerce-api/internal/domain/entity"
	"go-commerce-api/internal/interface/middleware"
	"go-commerce-api/pkg/assets"
	"go-commerce-api/pkg/helpers"
	"go-commerce-api/pkg/response"
	"go-commerce-api/pkg/validation"
)

type AccountHandler struct {
	Svc    *application.AccountService
	Assets assets.Store
	Logger *logrus.Logger
}

func NewAccountHandler(svc *application.AccountService, store assets.Store, logger *logrus.Logger) *AccountHandler {
	return &AccountHandler{Svc: svc, Assets: store, Logger: logger}
}

type registerRequest struct {
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type updateProfileRequest struct {
	FullName *string `json:"full_name"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Image    *string `json:"image"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,pwd"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type resetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,pwd"`
}

type userView struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	ProfileImage *string   `json:"profile_image"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (h *AccountHandler) userView(c *gin.Context, u *entity.User) userView {
	v := userView{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
	if u.ProfileImage != "" {
		if url := h.Assets.PublicURL(c.Request.Context(), u.ProfileImage); url != "" {
			v.ProfileImage = &url
		}
	}
	return v
}

func (h *AccountHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	u, token, err := h.Svc.Register(c.Request.Context(), application.RegisterInput{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, application.ErrEmailExists):
			response.Error[any](c, http.StatusConflict, "email already registered", nil)
		case errors.Is(err, helpers.ErrWeakPassword):
			response.Error[any](c, http.StatusBadRequest, err.Error(), nil)
		default:
			h.internal(c, err, "register failed")
		}
		return
	}
	response.Success(c, http.StatusCreated, h.userView(c, u), "registration successful", gin.H{"token": token})
}

func (h *AccountHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	u, token, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrUserNotFound):
			response.Error[any](c, http.StatusNotFound, "user not found", nil)
		case errors.Is(err, application.ErrInvalidCredentials):
			response.Error[any](c, http.StatusUnauthorized, "invalid credentials", nil)
		default:
			h.internal(c, err, "login failed")
		}
		return
	}
	response.Success(c, http.StatusOK, h.userView(c, u), "login successful", gin.H{"token": token})
}

func (h *AccountHandler) GetProfile(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	u, err := h.Svc.GetProfile(c.Request.Context(), uid)
	if err != nil {
		if errors.Is(err, application.ErrUserNotFound) {
			response.Error[any](c, http.StatusNotFound, "user not found", nil)
			return
		}
		h.internal(c, err, "get profile failed")
		return
	}
	response.Success(c, http.StatusOK, h.userView(c, u), "profile retrieved", nil)
}

func (h *AccountHandler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	uid := c.GetString(middleware.CtxUserIDKey)
	u, err := h.Svc.UpdateProfile(c.Request.Context(), uid, application.UpdateProfileInput{
		FullName: req.FullName,
		Email:    req.Email,
		Image:    req.Image,
	})
	if err != nil {
		switch {
		case errors.Is(err, application.ErrUserNotFound):
			response.Error[any](c, http.StatusNotFound, "user not found", nil)
		case errors.Is(err, application.ErrEmailExists):
			response.Error[any](c, http.StatusConflict, "email already registered", nil)
		case errors.Is(err, assets.ErrInvalidPayload):
			response.Error[any](c, http.StatusBadRequest, "image payload is not a valid base64 image", nil)
		default:
			h.internal(c, err, "update profile failed")
		}
		return
	}
	response.Success(c, http.StatusOK, h.userView(c, u), "profile updated", nil)
}

func (h *AccountHandler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	uid := c.GetString(middleware.CtxUserIDKey)
	err := h.Svc.ChangePassword(c.Request.Context(), uid, req.OldPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrUserNotFound):
			response.Error[any](c, http.StatusNotFound, "user not found", nil)
		case errors.Is(err, application.ErrOldPasswordIncorrect):
			response.Error[any](c, http.StatusUnauthorized, "old password is incorrect", nil)
		case errors.Is(err, application.ErrSamePassword), errors.Is(err, helpers.ErrWeakPassword):
			response.Error[any](c, http.StatusBadRequest, err.Error(), nil)
		default:
			h.internal(c, err, "change password failed")
		}
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"changed": true}, "password changed", nil)
}

func (h *AccountHandler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	err := h.Svc.ForgotPassword(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, application.ErrUserNotFound) {
			response.Error[any](c, http.StatusNotFound, "user not found", nil)
			return
		}
		h.internal(c, err, "forgot password failed")
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"sent": true}, "reset instructions sent", nil)
}

func (h *AccountHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	err := h.Svc.ResetPassword(c.Request.Context(), req.Token, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrResetTokenInvalid):
			response.Error[any](c, http.StatusUnauthorized, "reset token is invalid or expired", nil)
		case errors.Is(err, helpers.ErrWeakPassword):
			response.Error[any](c, http.StatusBadRequest, err.Error(), nil)
		default:
			h.internal(c, err, "reset password failed")
		}
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"reset": true}, "password reset", nil)
}

func (h *AccountHandler) internal(c *gin.Context, err error, msg string) {
	if h.Logger != nil {
		h.Logger.WithError(err).WithField("request_id", c.GetString("request_id")).Error(msg)
	}
	response.Error[any](c, http.StatusInternalServerError, "internal server error", nil)
}
