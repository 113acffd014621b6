package validation

import "unicode/utf8"

// UserCreateInput is the validated registration payload.
type UserCreateInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// UserCreate validates a registration body. Email uniqueness is checked by
// the service against the store and merged into the same envelope.
func UserCreate(raw map[string]any) (*UserCreateInput, FieldErrors) {
	errs := FieldErrors{}

	in := &UserCreateInput{}
	in.FirstName, _ = requireString(raw, "first_name", errs)
	in.LastName, _ = requireString(raw, "last_name", errs)
	in.Email, _ = requireEmail(raw, errs)

	if password, ok := requireString(raw, "password", errs); ok {
		switch n := utf8.RuneCountInString(password); {
		case n < 8:
			errs.Add("password", passwordMinMsg)
		case n > 32:
			errs.Add("password", passwordMaxMsg)
		default:
			in.Password = password
		}
	}

	if !errs.Empty() {
		return nil, errs
	}
	return in, nil
}

// UserUpdateInput is the validated profile-update payload. All fields are
// required on update, bio included — a partial update is not part of the
// contract.
type UserUpdateInput struct {
	FirstName string
	LastName  string
	Email     string
	Bio       string
}

// UserUpdate validates a profile-update body. The email uniqueness check is
// parameterized by the acting user's id in the service so users are never
// blocked from keeping their own address.
func UserUpdate(raw map[string]any) (*UserUpdateInput, FieldErrors) {
	errs := FieldErrors{}

	in := &UserUpdateInput{}
	in.FirstName, _ = requireString(raw, "first_name", errs)
	in.LastName, _ = requireString(raw, "last_name", errs)
	in.Email, _ = requireEmail(raw, errs)
	in.Bio, _ = requireString(raw, "bio", errs)

	if !errs.Empty() {
		return nil, errs
	}
	return in, nil
}

// PasswordUpdateInput is the validated change-password payload.
type PasswordUpdateInput struct {
	OldPassword string
	NewPassword string
}

// PasswordUpdate validates a change-password body. Whether old_password
// actually matches the stored hash is the service's concern.
func PasswordUpdate(raw map[string]any) (*PasswordUpdateInput, FieldErrors) {
	errs := FieldErrors{}

	in := &PasswordUpdateInput{}
	in.OldPassword, _ = requireString(raw, "old_password", errs)

	if newPassword, ok := requireString(raw, "new_password", errs); ok {
		switch n := utf8.RuneCountInString(newPassword); {
		case n < 8:
			errs.Add("new_password", newPasswordMinMsg)
		case n > 32:
			errs.Add("new_password", newPasswordMaxMsg)
		default:
			in.NewPassword = newPassword
		}
	}

	if !errs.Empty() {
		return nil, errs
	}
	return in, nil
}

// LoginInput is the validated login payload.
type LoginInput struct {
	Email    string
	Password string
}

// Login validates a login body. No length rules here — a short password must
// fail credential verification, not validation, so login responses don't leak
// the password policy.
func Login(raw map[string]any) (*LoginInput, FieldErrors) {
	errs := FieldErrors{}

	in := &LoginInput{}
	in.Email, _ = requireEmail(raw, errs)
	in.Password, _ = requireString(raw, "password", errs)

	if !errs.Empty() {
		return nil, errs
	}
	return in, nil
}
