package server

import (
	"github.com/gofiber/fiber/v2"

	auth "github.com/studiolane/campus-auth"
	"github.com/studiolane/campus-auth/social"
)

// AuthController serves the account lifecycle endpoints.
type AuthController struct {
	Service  *auth.AuthService
	Provider social.Provider
	Logger   auth.Logger
}

func NewAuthController(svc *auth.AuthService, provider social.Provider, logger auth.Logger) *AuthController {
	return &AuthController{
		Service:  svc,
		Provider: provider,
		Logger:   logger,
	}
}

func (a *AuthController) Register(c *fiber.Ctx) error {
	payload := new(RegisterPayload)
	if err := c.BodyParser(payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := payload.Validate(); err != nil {
		return err
	}

	result, err := a.Service.Register(c.Context(), auth.RegisterInput{
		FullName: payload.FullName,
		Email:    payload.Email,
		Password: payload.Password,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": result.Message,
		"data":    result.User,
	})
}

func (a *AuthController) VerifyEmail(c *fiber.Ctx) error {
	token := c.Query("token")
	if token == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing token")
	}

	result, err := a.Service.VerifyEmail(c.Context(), token, ParseDeviceClass(c.Get(fiber.HeaderUserAgent)))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "email verified",
		"data":    result,
	})
}

func (a *AuthController) ResendVerification(c *fiber.Ctx) error {
	payload := new(ResendPayload)
	if err := c.BodyParser(payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := payload.Validate(); err != nil {
		return err
	}

	message, err := a.Service.ResendVerification(c.Context(), payload.Email)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": message,
	})
}

func (a *AuthController) Login(c *fiber.Ctx) error {
	payload := new(LoginPayload)
	if err := c.BodyParser(payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := payload.Validate(); err != nil {
		return err
	}

	result, err := a.Service.Login(c.Context(), payload.Email, payload.Password, ParseDeviceClass(c.Get(fiber.HeaderUserAgent)))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "login successful",
		"data":    result,
	})
}

func (a *AuthController) GoogleLogin(c *fiber.Ctx) error {
	payload := new(OAuthPayload)
	if err := c.BodyParser(payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := payload.Validate(); err != nil {
		return err
	}

	result, err := a.Service.LoginWithProvider(c.Context(), a.Provider, payload.Code, ParseDeviceClass(c.Get(fiber.HeaderUserAgent)))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "login successful",
		"data":    result,
	})
}

func (a *AuthController) Logout(c *fiber.Ctx) error {
	user, ok := CurrentUser(c)
	if !ok {
		return auth.ErrUnauthenticated
	}

	payload := new(LogoutPayload)
	// Body is optional: no body means revoke the current session only.
	_ = c.BodyParser(payload)

	sessionID := payload.SessionID
	if sessionID == "" && !payload.All {
		sessionID = CurrentSessionID(c)
	}

	if err := a.Service.Logout(c.Context(), user.ID.String(), sessionID); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "logged out",
	})
}

func (a *AuthController) Profile(c *fiber.Ctx) error {
	user, ok := CurrentUser(c)
	if !ok {
		return auth.ErrUnauthenticated
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    user.Profile(),
	})
}

func (a *AuthController) CompleteOnboarding(c *fiber.Ctx) error {
	user, ok := CurrentUser(c)
	if !ok {
		return auth.ErrUnauthenticated
	}

	profile, message, err := a.Service.CompleteOnboarding(c.Context(), user.ID.String())
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": message,
		"data":    profile,
	})
}
