package session

// User-facing toast texts.
const (
	MsgLoginSuccess     = "Welcome back, %s!"
	MsgInvalidCreds     = "Invalid email or password."
	MsgLoginFailed      = "Login failed. Please try again."
	MsgRegisterSuccess  = "Account created successfully."
	MsgRegisterFailed   = "Registration failed. Please try again."
	MsgLogoutSuccess    = "You have been logged out."
	MsgLogoutFailed     = "Logout failed. Please try again."
	MsgCorruptedSession = "Your saved session could not be read. Please sign in again."
)

// Persisted slot names.
const (
	TokenKey = "token"
	UserKey  = "user"
)
