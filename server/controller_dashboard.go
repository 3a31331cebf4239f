package server

import (
	"github.com/gofiber/fiber/v2"

	auth "github.com/studiolane/campus-auth"
	"github.com/studiolane/campus-auth/dashboard"
)

// DashboardController serves the per-user workspace endpoint.
type DashboardController struct {
	Repo dashboard.Reader
}

func NewDashboardController(repo dashboard.Reader) *DashboardController {
	return &DashboardController{Repo: repo}
}

// GetByOwner returns the workspace named in the path. Accounts can only
// read their own.
func (dc *DashboardController) GetByOwner(c *fiber.Ctx) error {
	user, ok := CurrentUser(c)
	if !ok {
		return auth.ErrUnauthenticated
	}

	ownerID := c.Params("userID")
	if ownerID != user.ID.String() {
		return fiber.NewError(fiber.StatusForbidden, "cannot access another user's dashboard")
	}

	record, err := dashboard.ByOwner(c.Context(), dc.Repo, ownerID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    record,
	})
}
