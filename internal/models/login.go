package models

// LoginOutcome is the uniform result of a login attempt that passed input
// validation and the lockout check
type LoginOutcome struct {
	Success      bool   `json:"success"`
	Role         Role   `json:"role,omitempty"`
	AccountID    string `json:"account_id,omitempty"`
	IsSuperAdmin bool   `json:"is_super_admin,omitempty"`
	Message      string `json:"message,omitempty"`
}

// LoginSucceeded builds a success outcome for the given account
func LoginSucceeded(account Account) *LoginOutcome {
	outcome := &LoginOutcome{
		Success:   true,
		Role:      account.AccountRole(),
		AccountID: account.AccountID(),
	}
	if holder, ok := account.(interface{ IsSuperAdmin() bool }); ok {
		outcome.IsSuperAdmin = holder.IsSuperAdmin()
	}
	return outcome
}

// LoginFailed builds a failure outcome carrying a user-facing message
func LoginFailed(message string) *LoginOutcome {
	return &LoginOutcome{Message: message}
}
