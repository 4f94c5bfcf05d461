package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bidboard/bidboard-backend/internal/scoring"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondDomainError maps a scoring error kind onto an HTTP status and
// renders the envelope. Errors without a kind are treated as plain bad
// requests, matching the rest of the handler layer.
func RespondDomainError(c *gin.Context, err error) {
	kind := scoring.KindOf(err)
	status := http.StatusBadRequest
	switch kind {
	case scoring.KindNotFound:
		status = http.StatusNotFound
	case scoring.KindDuplicateScore, scoring.KindTemplateLocked:
		status = http.StatusConflict
	}
	RespondError(c, status, string(kind), err)
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
