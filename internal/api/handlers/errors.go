package handlers

import (
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"

	"election-service/internal/models"
	"election-service/internal/services"
	"election-service/internal/storage"
	"election-service/pkg/response"

	"github.com/gin-gonic/gin"
)

// domainErrors maps service errors to the status and message the client sees.
// Anything not listed is a 500.
var domainErrors = []struct {
	err     error
	status  int
	message string
}{
	{services.ErrElectionNotFound, http.StatusNotFound, "Election not found"},
	{services.ErrCandidateNotFound, http.StatusNotFound, "Candidate not found"},
	{services.ErrPartyNotFound, http.StatusNotFound, "Party not found"},
	{services.ErrUserNotFound, http.StatusNotFound, "User not found"},
	{services.ErrVoteNotFound, http.StatusNotFound, "Vote not found"},

	{services.ErrElectionNotActive, http.StatusBadRequest, "Election is not active"},
	{services.ErrVotingClosed, http.StatusBadRequest, "Voting has ended for this election"},
	{services.ErrAlreadyVoted, http.StatusBadRequest, "You have already voted in this election"},
	{services.ErrCandidateNotInElection, http.StatusBadRequest, "Candidate is not part of this election"},
	{services.ErrResultsNotDeclared, http.StatusBadRequest, "Results have not been declared"},
	{services.ErrPartyExists, http.StatusBadRequest, "A party with this name already exists."},
	{services.ErrUserAlreadyExists, http.StatusBadRequest, "User already exists"},
	{services.ErrInvalidElectionDates, http.StatusBadRequest, "End date must be after start date"},
	{services.ErrInvalidDate, http.StatusBadRequest, "Invalid date of birth"},
	{services.ErrInvalidRequest, http.StatusBadRequest, "Invalid input data"},
	{models.ErrInvalidRole, http.StatusBadRequest, "Invalid role"},
	{models.ErrInvalidPartyLevel, http.StatusBadRequest, "Party level must be National or Local"},
	{storage.ErrUnsupportedFileType, http.StatusBadRequest, "Only image uploads are allowed"},

	{services.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid email or password"},

	{services.ErrRoleCannotVote, http.StatusForbidden, "This account role cannot vote"},
	{services.ErrAdminSelfRegistration, http.StatusForbidden, "Admin accounts cannot be self-registered"},
}

func statusFor(err error) (int, string) {
	for _, m := range domainErrors {
		if errors.Is(err, m.err) {
			return m.status, m.message
		}
	}
	return http.StatusInternalServerError, "Server error"
}

// respondError writes the mapped error. Unmapped errors are logged and
// returned without details.
func respondError(c *gin.Context, err error) {
	status, message := statusFor(err)
	if status == http.StatusInternalServerError {
		slog.Error("Request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
		response.Error(c, status, message, "")
		return
	}
	response.Error(c, status, message, err.Error())
}

func bindError(c *gin.Context, err error) {
	response.Error(c, http.StatusBadRequest, "Invalid input data", err.Error())
}

// paramID reads a positive integer path parameter, answering 400 otherwise.
func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		response.Error(c, http.StatusBadRequest, "Invalid "+name, c.Param(name))
		return 0, false
	}
	return uint(id), true
}

// optionalFile returns the uploaded file under field, or nil when the request
// is not multipart or carries no such file.
func optionalFile(c *gin.Context, field string) (*multipart.FileHeader, error) {
	if c.ContentType() != gin.MIMEMultipartPOSTForm {
		return nil, nil
	}
	file, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	return file, err
}
