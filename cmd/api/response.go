package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vidtube/backend/internal/errs"
	"github.com/vidtube/backend/internal/metrics"
)

// successResponse is the envelope for every successful reply.
type successResponse struct {
	StatusCode int         `json:"statusCode"`
	Data       interface{} `json:"data"`
	Message    string      `json:"message"`
	Success    bool        `json:"success"`
}

// errorResponse is the envelope for every failed reply.
type errorResponse struct {
	StatusCode int      `json:"statusCode"`
	Message    string   `json:"message"`
	Success    bool     `json:"success"`
	Errors     []string `json:"errors"`
}

func respond(c *gin.Context, status int, data interface{}, message string) {
	c.JSON(status, successResponse{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    true,
	})
}

func respondOK(c *gin.Context, data interface{}, message string) {
	respond(c, http.StatusOK, data, message)
}

func respondCreated(c *gin.Context, data interface{}, message string) {
	respond(c, http.StatusCreated, data, message)
}

// respondError maps the error's kind to a status code and writes the error
// envelope. Internal detail stays out of the body.
func respondError(c *gin.Context, err error) {
	kind := errs.KindOf(err)
	status := errs.HTTPStatus(kind)
	if kind == errs.KindInternal {
		metrics.RecordError("api", "internal")
	}
	c.JSON(status, errorResponse{
		StatusCode: status,
		Message:    errs.MessageOf(err),
		Success:    false,
		Errors:     []string{},
	})
}

// cookieConfig carries the auth cookie attributes fixed at startup.
type cookieConfig struct {
	domain        string
	secure        bool
	accessMaxAge  int
	refreshMaxAge int
}

const (
	accessTokenCookie  = "accessToken"
	refreshTokenCookie = "refreshToken"
)

// setAuthCookies installs both token cookies. HttpOnly keeps them away from
// scripts; Secure is configurable so local development over plain HTTP works.
func (api *API) setAuthCookies(c *gin.Context, accessToken, refreshToken string) {
	c.SetCookie(accessTokenCookie, accessToken, api.cookies.accessMaxAge, "/", api.cookies.domain, api.cookies.secure, true)
	c.SetCookie(refreshTokenCookie, refreshToken, api.cookies.refreshMaxAge, "/", api.cookies.domain, api.cookies.secure, true)
}

func (api *API) clearAuthCookies(c *gin.Context) {
	c.SetCookie(accessTokenCookie, "", -1, "/", api.cookies.domain, api.cookies.secure, true)
	c.SetCookie(refreshTokenCookie, "", -1, "/", api.cookies.domain, api.cookies.secure, true)
}
