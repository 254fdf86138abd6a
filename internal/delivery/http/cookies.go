package http

import "github.com/gin-gonic/gin"

const (
	cookieUsername = "username"
	cookieLobbyID  = "lobbyId"

	cookieMaxAge = 60 * 60 * 24 // 24h, process-memory state only per spec.md's Non-goals
)

func setIdentityCookies(c *gin.Context, username, lobbyID string) {
	c.SetCookie(cookieUsername, username, cookieMaxAge, "/", "", false, true)
	if lobbyID != "" {
		c.SetCookie(cookieLobbyID, lobbyID, cookieMaxAge, "/", "", false, true)
	}
}

func clearIdentityCookies(c *gin.Context) {
	c.SetCookie(cookieUsername, "", -1, "/", "", false, true)
	c.SetCookie(cookieLobbyID, "", -1, "/", "", false, true)
}

func usernameFromCookie(c *gin.Context) string {
	v, _ := c.Cookie(cookieUsername)
	return v
}
