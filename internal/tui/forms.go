package tui

import (
	"github.com/charmbracelet/huh"

	"github.com/ecommerce-fullstack-globalprint/trabalho-frontend-backend-prof-mariane/internal/models"
)

// Confirm shows a yes/no confirmation prompt.
func Confirm(message string, defaultValue bool) (bool, error) {
	result := defaultValue
	err := huh.NewConfirm().
		Title(message).
		Affirmative("Yes").
		Negative("No").
		Value(&result).
		Run()
	if err != nil {
		return defaultValue, err
	}
	return result, nil
}

// ConfirmDangerous shows a confirmation prompt for dangerous actions.
func ConfirmDangerous(message string) (bool, error) {
	var result bool
	err := huh.NewConfirm().
		Title(message).
		Description("This action cannot be undone.").
		Affirmative("Yes, I'm sure").
		Negative("Cancel").
		Value(&result).
		Run()
	if err != nil {
		return false, err
	}
	return result, nil
}

// InputRequired shows a required text input prompt.
func InputRequired(title, placeholder string) (string, error) {
	var result string
	err := huh.NewInput().
		Title(title).
		Placeholder(placeholder).
		Value(&result).
		Validate(fieldValidator("required")).
		Run()
	return result, err
}

// LoginForm prompts for the credentials missing from req.
func LoginForm(req *models.LoginRequest) error {
	var fields []huh.Field
	if req.Email == "" {
		fields = append(fields, emailInput(&req.Email))
	}
	if req.Password == "" {
		fields = append(fields, passwordInput(&req.Password, "required"))
	}
	if len(fields) == 0 {
		return nil
	}
	return huh.NewForm(huh.NewGroup(fields...).Title("Sign in to GlobalPrint")).Run()
}

// RegisterForm prompts for a new account. Values already set are used as
// defaults.
func RegisterForm(req *models.RegisterRequest) error {
	form := huh.NewForm(
		huh.NewGroup(
			emailInput(&req.Email),
			passwordInput(&req.Password, "required,min=8"),
		).Title("Create your account"),
		huh.NewGroup(
			huh.NewInput().Title("First name").Value(&req.FirstName).Validate(fieldValidator("required")),
			huh.NewInput().Title("Last name").Value(&req.LastName).Validate(fieldValidator("required")),
			huh.NewInput().Title("Phone").Placeholder("optional").Value(&req.Phone),
		),
	)
	return form.Run()
}

func emailInput(v *string) *huh.Input {
	return huh.NewInput().
		Title("Email").
		Placeholder("you@example.com").
		Value(v).
		Validate(fieldValidator("required,email"))
}

func passwordInput(v *string, tag string) *huh.Input {
	return huh.NewInput().
		Title("Password").
		EchoMode(huh.EchoModePassword).
		Value(v).
		Validate(fieldValidator(tag))
}

func fieldValidator(tag string) func(string) error {
	return func(s string) error {
		return models.ValidateField(s, tag)
	}
}
