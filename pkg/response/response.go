// Package response renders the tRPC-compatible envelope the dashboard and
// registration page consume: {"result":{"data":...}} on success and
// {"error":{...}} with a JSON-RPC style code on failure.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// tRPC error codes (JSON-RPC derived).
const (
	CodeBadRequest   = -32600
	CodeInternal     = -32603
	CodeUnauthorized = -32001
	CodeForbidden    = -32003
	CodeNotFound     = -32004
	CodeConflict     = -32009
)

// Result wraps procedure output.
type Result struct {
	Data interface{} `json:"data"`
}

// ErrorData carries transport details alongside the error.
type ErrorData struct {
	HTTPStatus int `json:"httpStatus"`
}

// ErrorBody is the tRPC error shape.
type ErrorBody struct {
	Message string    `json:"message"`
	Code    int       `json:"code"`
	Data    ErrorData `json:"data"`
}

// Body is the full response envelope. Exactly one of Result or Error is set.
type Body struct {
	Result *Result    `json:"result,omitempty"`
	Error  *ErrorBody `json:"error,omitempty"`
}

// OK sends a 200 envelope with data under result.data.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Body{Result: &Result{Data: data}})
}

func fail(c *gin.Context, status, code int, msg string) {
	c.JSON(status, Body{Error: &ErrorBody{
		Message: msg,
		Code:    code,
		Data:    ErrorData{HTTPStatus: status},
	}})
}

// BadRequest sends 400 with error message.
func BadRequest(c *gin.Context, msg string) {
	fail(c, http.StatusBadRequest, CodeBadRequest, msg)
}

// Unauthorized sends 401.
func Unauthorized(c *gin.Context, msg string) {
	fail(c, http.StatusUnauthorized, CodeUnauthorized, msg)
}

// Forbidden sends 403.
func Forbidden(c *gin.Context, msg string) {
	fail(c, http.StatusForbidden, CodeForbidden, msg)
}

// NotFound sends 404.
func NotFound(c *gin.Context, msg string) {
	fail(c, http.StatusNotFound, CodeNotFound, msg)
}

// Conflict sends 409.
func Conflict(c *gin.Context, msg string) {
	fail(c, http.StatusConflict, CodeConflict, msg)
}

// Internal sends 500.
func Internal(c *gin.Context, msg string) {
	fail(c, http.StatusInternalServerError, CodeInternal, msg)
}
