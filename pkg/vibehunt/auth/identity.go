package auth

import "github.com/gin-gonic/gin"

// Identity is the caller as resolved at the HTTP boundary. The zero value is
// an anonymous caller, which may read but not write.
type Identity struct {
	UserID     uint
	Email      string
	SystemRole string
}

// Anonymous reports whether no user was authenticated.
func (i Identity) Anonymous() bool {
	return i.UserID == 0
}

// IsAdmin reports whether the caller holds the admin system role.
func (i Identity) IsAdmin() bool {
	return i.SystemRole == "admin"
}

// SetIdentity stores the identity in the gin context.
func SetIdentity(c *gin.Context, id Identity) {
	c.Set(ContextKeyUserID, id.UserID)
	c.Set(ContextKeyEmail, id.Email)
	c.Set(ContextKeySystemRole, id.SystemRole)
}

// GetIdentity returns the identity stored by one of the auth middlewares, or
// the anonymous identity when none ran or no credentials were sent.
func GetIdentity(c *gin.Context) Identity {
	var id Identity
	id.UserID, _ = GetUserID(c)
	id.Email, _ = GetEmail(c)
	id.SystemRole, _ = GetSystemRole(c)
	return id
}
