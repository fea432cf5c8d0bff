package router

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"rangequery/cycle"
	"rangequery/trees/prefix"
)

const (
	SUCCESS            = "SUCCESS"
	FAIL               = "FAIL"
	INVALID_PARAMETERS = "INVALID_PARAMETERS"
	INVALID_POST_DATA  = "INVALID_POST_DATA"
	MALFORMED_QUERY    = "MALFORMED_QUERY"
	NON_FINITE_ANSWER  = "NON_FINITE_ANSWER"
	SERVER_ERROR       = "SERVER_ERROR"
)

type Response struct {
	OptStatus   string      `json:"OPT_STATUS"`
	Description string      `json:"DESCRIPTION"`
	Data        interface{} `json:"DATA"`
}

// BadRequestError marks client input the handler could not parse.
type BadRequestError struct {
	Status  string
	Message string
}

func (e *BadRequestError) Error() string {
	return e.Message
}

func HttpResponse(c *gin.Context, httpCode int, data interface{}, optStatus string, description string) {
	c.JSON(httpCode, Response{
		OptStatus:   optStatus,
		Description: description,
		Data:        data,
	})
}

func BadRequestResponse(c *gin.Context, optStatus string, description string, data interface{}) {
	HttpResponse(c, http.StatusBadRequest, data, optStatus, description)
}

func InternalErrorResponse(c *gin.Context, data interface{}, optStatus string, description string) {
	HttpResponse(c, http.StatusInternalServerError, data, optStatus, description)
}

func JsonResponse(c *gin.Context, data interface{}, err error) {
	if err == nil {
		HttpResponse(c, http.StatusOK, data, SUCCESS, "")
		return
	}

	var bre *BadRequestError
	var mqe *prefix.MalformedQueryError
	var nfe *cycle.NonFiniteAnswerError
	switch {
	case errors.As(err, &bre):
		BadRequestResponse(c, bre.Status, bre.Message, nil)
	case errors.As(err, &mqe):
		BadRequestResponse(c, MALFORMED_QUERY, mqe.Error(), gin.H{"position": mqe.Position})
	case errors.As(err, &nfe):
		HttpResponse(c, http.StatusUnprocessableEntity, gin.H{"position": nfe.Position}, NON_FINITE_ANSWER, nfe.Error())
	default:
		InternalErrorResponse(c, data, SERVER_ERROR, err.Error())
	}
}
