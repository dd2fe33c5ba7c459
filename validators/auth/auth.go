package authValidator

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"betcore/middleware"
	"betcore/models"
)

var validate = validator.New()

// Register validates a signup request
func Register() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Username string `json:"username" validate:"required,alphanum,min=3,max=30"`
			Email    string `json:"email" validate:"required,email"`
			Phone    string `json:"phone" validate:"required,min=10,max=15"`
			CPF      string `json:"cpf" validate:"required,len=11,numeric"`
			Name     string `json:"name" validate:"max=100"`
			Password string `json:"password" validate:"required,min=8,max=72"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			errors := make(map[string]string)
			for _, fieldErr := range err.(validator.ValidationErrors) {
				errors[fieldErr.Field()] = "Failed validation: " + fieldErr.Tag()
			}
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedRegister", &models.User{
			Username: reqData.Username,
			Email:    reqData.Email,
			Phone:    reqData.Phone,
			CPF:      reqData.CPF,
			Name:     reqData.Name,
			Password: reqData.Password,
		})
		return c.Next()
	}
}

// Login validates a login request
func Login() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Login    string `json:"login"`
			Password string `json:"password"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		if reqData.Login == "" {
			errors["login"] = "Username or email is required!"
		}
		if reqData.Password == "" {
			errors["password"] = "Password is required!"
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedLogin", reqData)
		return c.Next()
	}
}
