package presenters

import "github.com/gofiber/fiber/v2"

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func SuccessResponse(c *fiber.Ctx, data interface{}, statusCode int, message string) error {
	return c.Status(statusCode).JSON(Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// GateDeniedResponse renders a usage-gate denial. The gate message goes to
// the caller verbatim and the gate itself rides along as data so clients can
// show limit and usage numbers.
func GateDeniedResponse(c *fiber.Ctx, statusCode int, gate interface{}, message string) error {
	return c.Status(statusCode).JSON(Response{
		Success: false,
		Message: message,
		Data:    gate,
	})
}

func ErrorResponse(c *fiber.Ctx, statusCode int, message string, err error) error {
	resp := Response{
		Success: false,
		Message: message,
	}
	if err != nil {
		resp.Error = err.Error()
	}
	return c.Status(statusCode).JSON(resp)
}
