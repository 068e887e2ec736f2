package handler

import "github.com/labstack/echo/v4"

// getUserID extracts the authenticated user id placed in the context by the
// JWT middleware. The second return is false when the handler was reached
// without authentication, which only happens on a misregistered route.
func getUserID(c echo.Context) (uint64, bool) {
	id, ok := c.Get("user_id").(uint64)
	return id, ok
}
