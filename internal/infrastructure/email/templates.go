package email

import (
	"fmt"
	"net/url"
)

const companyName = "MedLink"

func signupOTPTemplate(data SignupOTPData) (subject, body string) {
	subject = fmt.Sprintf("%s email verification code", companyName)
	body = fmt.Sprintf(`Hello %s,

Your %s verification code is:

    %s

The code expires in %s. Enter it on the verification page to activate
your account.

If you did not sign up, you can safely ignore this email.

The %s team`,
		data.FullName, companyName, data.OTPCode, data.ExpiresIn, companyName)
	return subject, body
}

func passwordResetTemplate(data PasswordResetData, frontendURL string) (subject, body string) {
	link := fmt.Sprintf("%s/reset-password?token=%s&email=%s&role=%s",
		frontendURL,
		url.QueryEscape(data.Token),
		url.QueryEscape(data.Email),
		url.QueryEscape(data.Role))

	subject = fmt.Sprintf("Reset your %s password", companyName)
	body = fmt.Sprintf(`Hello,

We received a request to reset your %s password.

Open the link below to choose a new password:

    %s

Or enter this code on the reset page:

    %s

Both expire in %s and can be used once.

If you did not request a reset, you can safely ignore this email.

The %s team`,
		companyName, link, data.OTPCode, data.ExpiresIn, companyName)
	return subject, body
}
