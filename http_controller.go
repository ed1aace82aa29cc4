package auth

import (
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/nyaruka/phonenumbers"
)

// AuthControllerRoutes are the paths the controller mounts its handlers on
type AuthControllerRoutes struct {
	EmployerLogin     string
	JobseekerLogin    string
	EmployerRegister  string
	JobseekerRegister string
	Logout            string
}

type AuthController struct {
	Debug  bool
	Logger Logger
	Auth   *AuthService
	Guard  *HTTPGuard
	Routes *AuthControllerRoutes
}

type AuthControllerOption func(*AuthController) *AuthController

func WithAuthService(auth *AuthService) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Auth = auth
		return c
	}
}

func WithHTTPGuard(guard *HTTPGuard) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Guard = guard
		return c
	}
}

func WithControllerLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger: defLogger{},
		Routes: &AuthControllerRoutes{
			EmployerLogin:     "/employer/login",
			JobseekerLogin:    "/jobseeker/login",
			EmployerRegister:  "/employer/register",
			JobseekerRegister: "/jobseeker/register",
			Logout:            "/signout",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Auth == nil {
		panic("Missing AuthService in auth controller...")
	}

	if c.Guard == nil {
		panic("Missing HTTPGuard in auth controller...")
	}

	return c
}

// RegisterAuthRoutes mounts the login, registration, and sign-out handlers
func RegisterAuthRoutes(app *fiber.App, opts ...AuthControllerOption) *AuthController {
	controller := NewAuthController(opts...)

	app.Post(controller.Routes.EmployerLogin, controller.EmployerLoginPost)
	app.Post(controller.Routes.JobseekerLogin, controller.JobseekerLoginPost)
	app.Post(controller.Routes.EmployerRegister, controller.EmployerRegisterPost)
	app.Post(controller.Routes.JobseekerRegister, controller.JobseekerRegisterPost)
	app.Get(controller.Routes.Logout, controller.SignOut)

	return controller
}

// LoginRequest payload
type LoginRequest struct {
	Email      string `form:"email" json:"email"`
	Password   string `form:"password" json:"password"`
	RememberMe bool   `form:"remember_me" json:"remember_me"`
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

func (a *AuthController) EmployerLoginPost(c *fiber.Ctx) error {
	return a.login(c, RoleEmployer, "Access denied. This login is for employers only.")
}

func (a *AuthController) JobseekerLoginPost(c *fiber.Ctx) error {
	return a.login(c, RoleJobseeker, "Access denied. This login is for job seekers only.")
}

func (a *AuthController) login(c *fiber.Ctx, role Role, mismatchMessage string) error {
	payload := new(LoginRequest)

	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("login parse payload", "error", err)
		return failJSON(c, fiber.StatusBadRequest, "Failed to parse form")
	}

	if err := payload.Validate(); err != nil {
		return failJSON(c, fiber.StatusBadRequest, err.Error())
	}

	if a.Debug {
		fmt.Println("======= AUTH LOGIN ======")
		fmt.Println(print.MaybePrettyJSON(payload))
		fmt.Println("=========================")
	}

	identity, err := a.Auth.Login(c.Context(), payload.Email, payload.Password)
	if err != nil {
		return failJSON(c, statusFor(err), ErrorMessage(err))
	}

	// Post-success local check: the service stays role-agnostic, but each
	// login form serves exactly one role.
	if identity.Role != role {
		return failJSON(c, fiber.StatusForbidden, mismatchMessage)
	}

	redirect := a.Guard.GetRedirect(c, a.Guard.Routes().LandingFor(identity.Role))
	return c.Redirect(redirect, fiber.StatusSeeOther)
}

// EmployerRegisterPayload is the employer registration form
type EmployerRegisterPayload struct {
	CompanyName     string `form:"company_name" json:"company_name"`
	Email           string `form:"email" json:"email"`
	Phone           string `form:"phone_number" json:"phone_number"`
	Website         string `form:"website" json:"website"`
	Password        string `form:"password" json:"password"`
	ConfirmPassword string `form:"confirm_password" json:"confirm_password"`
}

// Validate will validate the payload
func (r EmployerRegisterPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.CompanyName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&r.Phone, validation.By(ValidatePhoneNumber)),
		validation.Field(&r.Website, is.URL),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 100)),
		validation.Field(
			&r.ConfirmPassword,
			validation.Required,
			validation.By(ValidateStringEquals(r.Password)),
		),
	)
}

func (r EmployerRegisterPayload) toPayload() RegistrationPayload {
	return RegistrationPayload{
		"company_name": r.CompanyName,
		"email":        r.Email,
		"phone_number": r.Phone,
		"website":      r.Website,
		"password":     r.Password,
	}
}

// JobseekerRegisterPayload is the job-seeker registration form
type JobseekerRegisterPayload struct {
	FirstName       string `form:"first_name" json:"first_name"`
	LastName        string `form:"last_name" json:"last_name"`
	Email           string `form:"email" json:"email"`
	Phone           string `form:"phone_number" json:"phone_number"`
	Headline        string `form:"headline" json:"headline"`
	Password        string `form:"password" json:"password"`
	ConfirmPassword string `form:"confirm_password" json:"confirm_password"`
}

// Validate will validate the payload
func (r JobseekerRegisterPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.LastName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&r.Phone, validation.By(ValidatePhoneNumber)),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 100)),
		validation.Field(
			&r.ConfirmPassword,
			validation.Required,
			validation.By(ValidateStringEquals(r.Password)),
		),
	)
}

func (r JobseekerRegisterPayload) toPayload() RegistrationPayload {
	return RegistrationPayload{
		"first_name":   r.FirstName,
		"last_name":    r.LastName,
		"email":        r.Email,
		"phone_number": r.Phone,
		"headline":     r.Headline,
		"password":     r.Password,
	}
}

func (a *AuthController) EmployerRegisterPost(c *fiber.Ctx) error {
	payload := new(EmployerRegisterPayload)

	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("employer register parse payload", "error", err)
		return failJSON(c, fiber.StatusBadRequest, "Failed to parse form")
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Error("employer register validate payload", "error", err)
		return failJSON(c, fiber.StatusBadRequest, err.Error())
	}

	return a.register(c, RoleEmployer, payload.toPayload())
}

func (a *AuthController) JobseekerRegisterPost(c *fiber.Ctx) error {
	payload := new(JobseekerRegisterPayload)

	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("jobseeker register parse payload", "error", err)
		return failJSON(c, fiber.StatusBadRequest, "Failed to parse form")
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Error("jobseeker register validate payload", "error", err)
		return failJSON(c, fiber.StatusBadRequest, err.Error())
	}

	return a.register(c, RoleJobseeker, payload.toPayload())
}

func (a *AuthController) register(c *fiber.Ctx, role Role, payload RegistrationPayload) error {
	if a.Debug {
		fmt.Println("======= AUTH REGISTER ======")
		fmt.Println(print.MaybePrettyJSON(payload))
		fmt.Println("============================")
	}

	identity, err := a.Auth.Register(c.Context(), role, payload)
	if err != nil {
		return failJSON(c, statusFor(err), ErrorMessage(err))
	}

	redirect := a.Guard.GetRedirect(c, a.Guard.Routes().LandingFor(identity.Role))
	return c.Redirect(redirect, fiber.StatusSeeOther)
}

func (a *AuthController) SignOut(c *fiber.Ctx) error {
	a.Auth.Logout(c.Context())
	return c.Redirect(a.Guard.Routes().Home, fiber.StatusTemporaryRedirect)
}

// ValidateStringEquals will check that both values match
func ValidateStringEquals(str string) validation.RuleFunc {
	return func(value any) error {
		s, _ := value.(string)
		if s != str {
			return errors.New("values must match")
		}
		return nil
	}
}

// defaultPhoneRegion resolves national numbers on the registration forms
const defaultPhoneRegion = "US"

// ValidatePhoneNumber accepts empty values; set Required separately
func ValidatePhoneNumber(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}

	num, err := phonenumbers.Parse(s, defaultPhoneRegion)
	if err != nil {
		return errors.New("must be a valid phone number")
	}
	if !phonenumbers.IsValidNumber(num) {
		return errors.New("must be a valid phone number")
	}
	return nil
}

func failJSON(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

func statusFor(err error) int {
	var rich *goerrors.Error
	if goerrors.As(err, &rich) && rich.Code > 0 {
		return rich.Code
	}
	return fiber.StatusInternalServerError
}
