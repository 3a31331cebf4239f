package server

import (
	"github.com/gofiber/fiber/v2"

	"github.com/studiolane/campus-auth/course"
)

// CourseController serves the public catalog endpoints.
type CourseController struct {
	Service *course.Service
}

func NewCourseController(svc *course.Service) *CourseController {
	return &CourseController{Service: svc}
}

func (cc *CourseController) List(c *fiber.Ctx) error {
	records, err := cc.Service.All(c.Context())
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    records,
	})
}

func (cc *CourseController) GetByID(c *fiber.Ctx) error {
	record, err := cc.Service.ByID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    record,
	})
}

func (cc *CourseController) ListByCategory(c *fiber.Ctx) error {
	records, err := cc.Service.ByCategory(c.Context(), c.Params("category"))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    records,
	})
}
