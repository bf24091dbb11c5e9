package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"card-classifier-api/internal/models"
	"card-classifier-api/internal/services"
	"card-classifier-api/pkg/lambda"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var internalErrorBody = []byte(`{"error":"` + MsgInternalError + `"}`)

// CardHandler handles classifier requests
type CardHandler struct {
	cardService services.CardService
	logger      *logrus.Logger
}

// NewCardHandler creates a new card handler
func NewCardHandler(cardService services.CardService, logger *logrus.Logger) *CardHandler {
	if logger == nil {
		logger = logrus.New()
	}
	return &CardHandler{
		cardService: cardService,
		logger:      logger,
	}
}

// classify runs the full request pipeline and returns the status and body to send
func (h *CardHandler) classify(ctx context.Context, body []byte) (int, any, error) {
	req, err := models.ParseRequestMSG(body)
	if err != nil {
		status, resp := errorStatus(err)
		return status, resp, err
	}

	resp, err := h.cardService.Classify(ctx, req)
	if err != nil {
		status, errResp := errorStatus(err)
		return status, errResp, err
	}

	return http.StatusOK, resp, nil
}

// Classify godoc
// @Summary Build a response card
// @Description Validates a request envelope and returns the card selected by its query
// @Tags classifier
// @Accept json
// @Produce json
// @Param request body models.RequestMSG true "Request envelope"
// @Success 200 {object} models.ResponseMSG
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /classifier_endpoint [post]
func (h *CardHandler) Classify(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: MsgRequestTooLarge})
			return
		}
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: MsgInvalidJSON})
		return
	}

	status, payload, err := h.classify(c.Request.Context(), body)
	if status >= http.StatusInternalServerError {
		c.Error(err).SetType(gin.ErrorTypePrivate).SetMeta(failureCause(err))
	} else if err != nil {
		c.Error(err).SetType(gin.ErrorTypePublic)
	}

	c.JSON(status, payload)
}

// HandleClassify is the serverless binding of Classify
func (h *CardHandler) HandleClassify(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	status, payload, err := h.classify(ctx, req.Body)
	if err != nil {
		entry := h.logger.WithFields(logrus.Fields{
			"request_id":  req.RequestID,
			"path":        req.Path,
			"status_code": status,
		}).WithError(err)
		if status >= http.StatusInternalServerError {
			entry.WithField("cause", failureCause(err)).Error("Classification failed")
		} else {
			entry.Warn("Rejected classifier request")
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		h.logger.WithError(err).Error("Failed to encode response")
		return lambda.JSONResponse(http.StatusInternalServerError, internalErrorBody), nil
	}

	return lambda.JSONResponse(status, body), nil
}
