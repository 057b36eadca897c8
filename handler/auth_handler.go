package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
	"github.com/notblessy/seopilot/model"
	"github.com/notblessy/seopilot/repository"
	"github.com/notblessy/seopilot/view"
	"github.com/sirupsen/logrus"
)

var (
	errEmailTaken         = errors.New("user with this email already exists")
	errInvalidCredentials = errors.New("invalid email or password")
)

type response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type authHandler struct {
	userRepo repository.UserRepository
	jwt      *JWTMiddleware
	validate *validator.Validate
}

func NewAuthHandler(userRepo repository.UserRepository, jwt *JWTMiddleware) *authHandler {
	return &authHandler{
		userRepo: userRepo,
		jwt:      jwt,
		validate: validator.New(),
	}
}

func (h *authHandler) Register(c echo.Context) error {
	logger := logrus.WithField("endpoint", "register")

	var req model.RegisterRequest
	if err := c.Bind(&req); err != nil {
		logger.Errorf("Error parsing request: %v", err)
		return c.JSON(http.StatusBadRequest, response{
			Success: false,
			Message: "invalid request body",
		})
	}

	if err := h.validate.Struct(req); err != nil {
		logger.Errorf("Validation error: %v", err)
		return c.JSON(http.StatusBadRequest, response{
			Success: false,
			Message: err.Error(),
		})
	}

	user, token, err := h.register(c.Request().Context(), req)
	switch {
	case errors.Is(err, errEmailTaken):
		logger.Warnf("User with email %s already exists", req.Email)
		return c.JSON(http.StatusConflict, response{
			Success: false,
			Message: err.Error(),
		})
	case err != nil:
		logger.Errorf("Error registering user: %v", err)
		return c.JSON(http.StatusInternalServerError, response{
			Success: false,
			Message: "failed to create user",
		})
	}

	return c.JSON(http.StatusCreated, response{
		Success: true,
		Data: model.AuthResponse{
			Token: token,
			Type:  "Bearer",
			User:  *user,
		},
	})
}

func (h *authHandler) Login(c echo.Context) error {
	logger := logrus.WithField("endpoint", "login")

	var req model.LoginRequest
	if err := c.Bind(&req); err != nil {
		logger.Errorf("Error parsing request: %v", err)
		return c.JSON(http.StatusBadRequest, response{
			Success: false,
			Message: "invalid request body",
		})
	}

	if err := h.validate.Struct(req); err != nil {
		logger.Errorf("Validation error: %v", err)
		return c.JSON(http.StatusBadRequest, response{
			Success: false,
			Message: err.Error(),
		})
	}

	user, token, err := h.login(c.Request().Context(), req)
	switch {
	case errors.Is(err, errInvalidCredentials):
		logger.Warnf("Failed login for %s", req.Email)
		return c.JSON(http.StatusUnauthorized, response{
			Success: false,
			Message: err.Error(),
		})
	case err != nil:
		logger.Errorf("Error logging in: %v", err)
		return c.JSON(http.StatusInternalServerError, response{
			Success: false,
			Message: "failed to generate token",
		})
	}

	return c.JSON(http.StatusOK, response{
		Success: true,
		Data: model.AuthResponse{
			Token: token,
			Type:  "Bearer",
			User:  *user,
		},
	})
}

// AuthPage renders the sign-in and sign-up forms, or the signed-in state.
func (h *authHandler) AuthPage(c echo.Context) error {
	form := view.AuthForm{}
	if claims, err := authSession(c); err == nil {
		form.User = &model.User{ID: claims.ID, Email: claims.Email, Name: claims.Name}
	}
	return render(c, http.StatusOK, view.AuthPage(form))
}

func (h *authHandler) PageLogin(c echo.Context) error {
	logger := logrus.WithField("endpoint", "page_login")

	var req model.LoginRequest
	if err := c.Bind(&req); err != nil || h.validate.Struct(req) != nil {
		return render(c, http.StatusBadRequest, view.AuthPage(view.AuthForm{
			Email: req.Email,
			Error: "Please enter your email and password.",
		}))
	}

	_, token, err := h.login(c.Request().Context(), req)
	if err != nil {
		status := http.StatusUnauthorized
		msg := "Invalid email or password."
		if !errors.Is(err, errInvalidCredentials) {
			logger.Errorf("Error logging in: %v", err)
			status = http.StatusInternalServerError
			msg = "Something went wrong. Please try again."
		}
		return render(c, status, view.AuthPage(view.AuthForm{Email: req.Email, Error: msg}))
	}

	h.jwt.setSessionCookie(c, token)
	return c.Redirect(http.StatusSeeOther, "/pricing")
}

func (h *authHandler) PageRegister(c echo.Context) error {
	logger := logrus.WithField("endpoint", "page_register")

	var req model.RegisterRequest
	if err := c.Bind(&req); err != nil || h.validate.Struct(req) != nil {
		return render(c, http.StatusBadRequest, view.AuthPage(view.AuthForm{
			Email: req.Email,
			Name:  req.Name,
			Error: "Please enter your name, a valid email and a password of at least 8 characters.",
		}))
	}

	_, token, err := h.register(c.Request().Context(), req)
	if err != nil {
		status := http.StatusConflict
		msg := "An account with this email already exists."
		if !errors.Is(err, errEmailTaken) {
			logger.Errorf("Error registering user: %v", err)
			status = http.StatusInternalServerError
			msg = "Something went wrong. Please try again."
		}
		return render(c, status, view.AuthPage(view.AuthForm{Email: req.Email, Name: req.Name, Error: msg}))
	}

	h.jwt.setSessionCookie(c, token)
	return c.Redirect(http.StatusSeeOther, "/pricing")
}

func (h *authHandler) Logout(c echo.Context) error {
	h.jwt.clearSessionCookie(c)
	return c.Redirect(http.StatusSeeOther, "/auth")
}

func (h *authHandler) register(ctx context.Context, req model.RegisterRequest) (*model.User, string, error) {
	existing, err := h.userRepo.FindByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		return nil, "", err
	}
	if existing != nil {
		return nil, "", errEmailTaken
	}

	user := &model.User{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	}
	if err := h.userRepo.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := h.jwt.signJWTToken(user.ID, user.Email, user.Name)
	if err != nil {
		return nil, "", err
	}

	user.Password = ""
	return user, token, nil
}

func (h *authHandler) login(ctx context.Context, req model.LoginRequest) (*model.User, string, error) {
	user, err := h.userRepo.FindByEmail(ctx, req.Email)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, "", errInvalidCredentials
	}
	if err != nil {
		return nil, "", err
	}

	if !repository.VerifyPassword(user.Password, req.Password) {
		return nil, "", errInvalidCredentials
	}

	token, err := h.jwt.signJWTToken(user.ID, user.Email, user.Name)
	if err != nil {
		return nil, "", err
	}

	user.Password = ""
	return user, token, nil
}
