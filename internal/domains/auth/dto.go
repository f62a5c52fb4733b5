package auth

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"medlink-backend/internal/domains/user"
)

func roleRule() validation.Rule {
	return validation.In(user.RoleCustomer, user.RolePharmacist).
		Error("role must be customer or pharmacist")
}

// SignupRequest starts the email verification workflow.
type SignupRequest struct {
	FullName string    `json:"full_name"`
	Email    string    `json:"email"`
	Role     user.Role `json:"role"`
	Password string    `json:"password"`
}

func (r SignupRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FullName,
			validation.Required.Error("full name is required"),
			validation.Length(2, 100),
		),
		validation.Field(&r.Email,
			validation.Required.Error("email is required"),
			is.Email.Error("invalid email format"),
			validation.Length(5, 255),
		),
		validation.Field(&r.Role, validation.Required, roleRule()),
		validation.Field(&r.Password,
			validation.Required.Error("password is required"),
			validation.Length(8, 128).Error("password must be 8-128 characters"),
		),
	)
}

// VerifyEmailRequest completes a pending signup.
type VerifyEmailRequest struct {
	Email   string    `json:"email"`
	Role    user.Role `json:"role"`
	OTPCode string    `json:"otp_code"`
}

func (r VerifyEmailRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Role, validation.Required, roleRule()),
		validation.Field(&r.OTPCode,
			validation.Required.Error("otp code is required"),
			validation.Length(6, 6).Error("otp code must be 6 digits"),
			is.Digit.Error("otp code must be numeric"),
		),
	)
}

// LoginRequest authenticates an active account.
type LoginRequest struct {
	Email      string    `json:"email"`
	Role       user.Role `json:"role"`
	Password   string    `json:"password"`
	RememberMe bool      `json:"remember_me"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Role, validation.Required, roleRule()),
		validation.Field(&r.Password, validation.Required),
	)
}

// ForgotPasswordRequest starts the reset workflow.
type ForgotPasswordRequest struct {
	Email string    `json:"email"`
	Role  user.Role `json:"role"`
}

func (r ForgotPasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Role, validation.Required, roleRule()),
	)
}

// ResetPasswordRequest consumes either the reset link token or the OTP,
// never both.
type ResetPasswordRequest struct {
	Email    string    `json:"email"`
	Role     user.Role `json:"role"`
	Password string    `json:"password"`
	Token    string    `json:"token,omitempty"`
	OTPCode  string    `json:"otp_code,omitempty"`
}

func (r ResetPasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Role, validation.Required, roleRule()),
		validation.Field(&r.Password,
			validation.Required,
			validation.Length(8, 128).Error("password must be 8-128 characters"),
		),
		// exactly one credential: token when no OTP, OTP when no token
		validation.Field(&r.Token,
			validation.Required.When(r.OTPCode == "").Error("either token or otp_code is required"),
			validation.Empty.When(r.OTPCode != "").Error("use either token or otp_code, not both"),
		),
		validation.Field(&r.OTPCode,
			validation.When(r.OTPCode != "",
				validation.Length(6, 6).Error("otp code must be 6 digits"),
				is.Digit.Error("otp code must be numeric"),
			),
		),
	)
}
