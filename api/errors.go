package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"runtime"

	"github.com/chromalens/api/analysis"
)

// Helper function to get caller information
func getCallerInfo() string {
	_, file, line, ok := runtime.Caller(2)
	if !ok {
		return "[unknown]"
	}
	return fmt.Sprintf("[%s:%d]", filepath.Base(file), line)
}

type HandlerError struct {
	ErrorName        string `json:"errorName"`
	Description      string `json:"description"`
	PossibleSolution string `json:"possibleSolution"`
	CallerInfo       string `json:"callerInfo"`
}

var ErrGET = fmt.Errorf("GET method required for this endpoint")
var ErrPOST = fmt.Errorf("POST method required for this endpoint")
var ErrImageRequired = fmt.Errorf("image is required")
var ErrInvalidToken = fmt.Errorf("image link is invalid or expired")

func writeError(w http.ResponseWriter, status int, herr HandlerError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(herr)
}

func (app *Application) requirePostMethod(w http.ResponseWriter, r *http.Request, err error) {
	w.Header().Set("Allow", http.MethodPost)
	writeError(w, http.StatusMethodNotAllowed, HandlerError{
		ErrorName:        "Post Method Required",
		Description:      err.Error() + " you used: " + r.Method,
		PossibleSolution: "Use POST method",
		CallerInfo:       getCallerInfo(),
	})
}

func (app *Application) requireGetMethod(w http.ResponseWriter, r *http.Request, err error) {
	w.Header().Set("Allow", http.MethodGet)
	writeError(w, http.StatusMethodNotAllowed, HandlerError{
		ErrorName:        "GET Method Required",
		Description:      err.Error() + " you used: " + r.Method,
		PossibleSolution: "Use GET method",
		CallerInfo:       getCallerInfo(),
	})
}

func (app *Application) badJSONRequest(w http.ResponseWriter, r *http.Request, err error) {
	writeError(w, http.StatusBadRequest, HandlerError{
		ErrorName:        "Error Parsing JSON",
		Description:      err.Error(),
		PossibleSolution: "Double check your JSON formatting",
		CallerInfo:       getCallerInfo(),
	})
}

func (app *Application) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	writeError(w, http.StatusBadRequest, HandlerError{
		ErrorName:        "Bad Request",
		Description:      err.Error(),
		PossibleSolution: "Check your request parameters",
		CallerInfo:       getCallerInfo(),
	})
}

func (app *Application) undecodableImage(w http.ResponseWriter, r *http.Request, err error) {
	writeError(w, http.StatusBadRequest, HandlerError{
		ErrorName:        "Image Could Not Be Read",
		Description:      err.Error(),
		PossibleSolution: "Send a base64 encoded PNG, JPEG, GIF, WebP, BMP or TIFF image",
		CallerInfo:       getCallerInfo(),
	})
}

func (app *Application) insufficientData(w http.ResponseWriter, r *http.Request, err error) {
	writeError(w, http.StatusUnprocessableEntity, HandlerError{
		ErrorName:        "Insufficient Image Data",
		Description:      err.Error(),
		PossibleSolution: "Send a larger image",
		CallerInfo:       getCallerInfo(),
	})
}

func (app *Application) payloadTooLarge(w http.ResponseWriter, r *http.Request, err error) {
	writeError(w, http.StatusRequestEntityTooLarge, HandlerError{
		ErrorName:        "Payload Too Large",
		Description:      err.Error(),
		PossibleSolution: fmt.Sprintf("Send images no larger than %d bytes", app.Config.MaxImageBytes),
		CallerInfo:       getCallerInfo(),
	})
}

func (app *Application) notFound(w http.ResponseWriter, r *http.Request, err error) {
	writeError(w, http.StatusNotFound, HandlerError{
		ErrorName:        "Not Found",
		Description:      err.Error(),
		PossibleSolution: "Check the identifier in the URL",
		CallerInfo:       getCallerInfo(),
	})
}

func (app *Application) forbidden(w http.ResponseWriter, r *http.Request, err error) {
	writeError(w, http.StatusForbidden, HandlerError{
		ErrorName:        "Forbidden",
		Description:      err.Error(),
		PossibleSolution: "Request a fresh image link by fetching the analysis again",
		CallerInfo:       getCallerInfo(),
	})
}

func (app *Application) internalServerError(w http.ResponseWriter, r *http.Request, err error) {
	writeError(w, http.StatusInternalServerError, HandlerError{
		ErrorName:        "Internal Server Error",
		Description:      err.Error(),
		PossibleSolution: "Internal Server Error requiring support",
		CallerInfo:       getCallerInfo(),
	})
}

func (app *Application) resolutionTooLarge(w http.ResponseWriter, r *http.Request, err analysis.TooLargeError) {
	writeError(w, http.StatusRequestEntityTooLarge, HandlerError{
		ErrorName:        "Payload Too Large",
		Description:      err.Error(),
		PossibleSolution: fmt.Sprintf("Downscale the image to at most %d pixels", err.Limit),
		CallerInfo:       getCallerInfo(),
	})
}

// analysisFailed maps errors from the analysis pipeline onto responses
func (app *Application) analysisFailed(w http.ResponseWriter, r *http.Request, err error) {
	var decodeErr analysis.DecodeError
	var insufficientErr analysis.InsufficientDataError
	var optionErr optionsError
	var tooLarge analysis.TooLargeError
	switch {
	case errors.As(err, &decodeErr):
		app.undecodableImage(w, r, err)
	case errors.As(err, &insufficientErr):
		app.insufficientData(w, r, err)
	case errors.As(err, &optionErr):
		app.badRequest(w, r, err)
	case errors.As(err, &tooLarge):
		app.resolutionTooLarge(w, r, tooLarge)
	default:
		app.internalServerError(w, r, err)
	}
}

// optionsError marks invalid request options
type optionsError struct {
	Err error
}

func (e optionsError) Error() string {
	return "invalid options: " + e.Err.Error()
}

func (e optionsError) Unwrap() error {
	return e.Err
}
