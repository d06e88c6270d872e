package httpapi

import (
	"context"
	"errors"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"github.com/rahulmaharshi/manage-library-app/borrowing"
	"github.com/rahulmaharshi/manage-library-app/library/shared/core"
	"github.com/rahulmaharshi/manage-library-app/library/shared/shell"
)

const (
	contentTypeJSON = "application/json; charset=utf-8"

	msgInternalError       = "the request could not be processed"
	msgConcurrentChange    = "the borrowing record was changed concurrently, reload it and try again"
	msgServiceUnavailable  = "the request timed out or was canceled"
	msgInvalidRequestBody  = "the request body is not valid json"
	msgInvalidBookID       = "bookId must be a uuid"
	msgInvalidRecordID     = "the record id must be a uuid"
	msgInvalidLoanDuration = "loanDurationInDays must be a whole number"
	msgInvalidImportUpload = "the upload must be a csv file in the field \"file\" or a text/csv body"
)

var json = jsoniter.ConfigFastest

type envelope struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Response any    `json:"response,omitempty"`
}

func (a *API) writeEnvelope(w http.ResponseWriter, r *http.Request, status int, body envelope) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		shell.LogError(r.Context(), a.logger, a.contextualLogger, logMsgWriteFailed, err)
	}
}

func (a *API) writeSuccess(w http.ResponseWriter, r *http.Request, message string, response any) {
	a.writeEnvelope(w, r, http.StatusOK, envelope{Success: true, Message: message, Response: response})
}

func (a *API) writeBadRequest(w http.ResponseWriter, r *http.Request, message string) {
	a.writeEnvelope(w, r, http.StatusBadRequest, envelope{Message: message})
}

// writeResult answers a command: 200 on success, 4xx for business failures, 5xx or 409 for errors.
func (a *API) writeResult(w http.ResponseWriter, r *http.Request, result shell.HandlerResult, err error, response any) {
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	if !result.Succeeded() {
		a.writeEnvelope(w, r, statusForReason(result.Reason), envelope{
			Message:  result.Message,
			Response: failureResponse{Reason: string(result.Reason)},
		})

		return
	}

	a.writeSuccess(w, r, result.Message, response)
}

func (a *API) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrNotPermitted):
		a.writeEnvelope(w, r, http.StatusForbidden, envelope{Message: msgForbidden})
	case errors.Is(err, borrowing.ErrBookNotFound):
		a.writeEnvelope(w, r, http.StatusNotFound, envelope{Message: core.FailureReasonBookNotFound.Message()})
	case errors.Is(err, borrowing.ErrRecordNotFound):
		a.writeEnvelope(w, r, http.StatusNotFound, envelope{Message: core.FailureReasonRecordNotFound.Message()})
	case errors.Is(err, borrowing.ErrConcurrentModification):
		a.writeEnvelope(w, r, http.StatusConflict, envelope{Message: msgConcurrentChange})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		a.writeEnvelope(w, r, http.StatusServiceUnavailable, envelope{Message: msgServiceUnavailable})
	default:
		shell.LogError(r.Context(), a.logger, a.contextualLogger, logMsgRequestFailed, err,
			logAttrMethod, r.Method,
			logAttrPath, r.URL.Path,
		)
		a.writeEnvelope(w, r, http.StatusInternalServerError, envelope{Message: msgInternalError})
	}
}

func statusForReason(reason core.FailureReason) int {
	switch {
	case reason == core.FailureReasonNotPermitted:
		return http.StatusForbidden
	case reason.IsNotFound():
		return http.StatusNotFound
	default:
		return http.StatusBadRequest
	}
}
