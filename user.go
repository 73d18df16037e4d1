package middlemark

// A User is the core entity that interacts with a middlemark application.
//
// An agent's HTTP requests are authenticated first by a specific request
// with email & password data matching credentials stored on a DB record for a User.
// Upon a match, a session is created and stored.
// Further requests are authenticated by referencing that session.
type User struct {
	Model
	AccessState AccessState `json:"accessState"`
	Admin       bool        `json:"admin"`
	Email       string      `json:"email" gorm:"uniqueIndex"`
	Name        string      `json:"name"`
	Password    []byte      `json:"-"`
}

// HasAccess asserts whether the User's properties give it general
// access to the middlemark application.
func (u User) HasAccess() bool { return u.AccessState == AccessGranted }

// HomePath returns the relative URL path designated
// as the default resource in the middlemark application
// they can access.
func (u User) HomePath() string {
	if !u.HasAccess() {
		return "/"
	}

	return "/dashboard"
}

// GetID retrieves the application's identifier for a User.
//
// GetID implements logger.LogUser.
func (u User) GetID() uint { return u.ID }

// GetEmail retrieves the email address of the User.
//
// GetEmail implements logger.LogUser.
func (u User) GetEmail() string { return u.Email }
