// Package routes names the staff console routes. Handlers and templates resolve
// URLs through these names instead of hard-coding paths.
package routes

const (
	Home         = "home"
	Login        = "login"
	Logout       = "logout"
	StaffProfile = "staff.profile"
	EditProfile  = "staff.profile.edit"
)
