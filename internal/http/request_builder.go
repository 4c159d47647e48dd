package http

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/cartonization-service/internal/domain/dto"
	"github.com/guttosm/cartonization-service/internal/i18n"
	"github.com/guttosm/cartonization-service/internal/middleware"
	"github.com/guttosm/cartonization-service/internal/packing"
)

// Response DTO pools for reducing allocations.
var (
	successResponsePool = sync.Pool{
		New: func() interface{} {
			return &dto.SuccessResponse{}
		},
	}

	errorResponsePool = sync.Pool{
		New: func() interface{} {
			return &dto.ErrorResponse{}
		},
	}
)

// messageKeys maps packing error codes to translation keys.
var messageKeys = map[packing.ErrorCode]string{
	packing.CodeInvalidRequest:            i18n.ErrKeyInvalidRequest,
	packing.CodeInvalidRules:              i18n.ErrKeyInvalidRules,
	packing.CodeNoSuitableCarton:          i18n.ErrKeyNoSuitableCarton,
	packing.CodeItemExceedsAllCartons:     i18n.ErrKeyItemExceedsAllCartons,
	packing.CodeWeightLimitExceeded:       i18n.ErrKeyWeightLimitExceeded,
	packing.CodeComputationTimeout:        i18n.ErrKeyComputationTimeout,
	packing.CodeInternalValidationFailure: i18n.ErrKeyInternalValidationFailure,
	packing.CodeDependencyUnavailable:     i18n.ErrKeyDependencyUnavailable,
}

func getSuccessResponse() *dto.SuccessResponse {
	if resp, ok := successResponsePool.Get().(*dto.SuccessResponse); ok {
		return resp
	}
	return &dto.SuccessResponse{}
}

func putSuccessResponse(resp *dto.SuccessResponse) {
	resp.Data = nil
	resp.RequestID = ""
	resp.Timestamp = time.Time{}
	successResponsePool.Put(resp)
}

func getErrorResponse() *dto.ErrorResponse {
	if resp, ok := errorResponsePool.Get().(*dto.ErrorResponse); ok {
		return resp
	}
	return &dto.ErrorResponse{}
}

func putErrorResponse(resp *dto.ErrorResponse) {
	resp.Error = ""
	resp.Message = ""
	resp.RequestID = ""
	resp.Timestamp = time.Time{}
	resp.Details = nil
	errorResponsePool.Put(resp)
}

// Validator is implemented by request DTOs with checks beyond binding tags.
type Validator interface {
	Validate() error
}

// BuildRequest binds the JSON body into a new T.
func BuildRequest[T any](c *gin.Context) (*T, error) {
	var req T
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, err
	}
	return &req, nil
}

// BuildRequestAndValidate binds the body and runs Validate when T implements Validator.
func BuildRequestAndValidate[T any](c *gin.Context) (*T, error) {
	req, err := BuildRequest[T](c)
	if err != nil {
		return nil, err
	}
	if validator, ok := any(req).(Validator); ok {
		if err := validator.Validate(); err != nil {
			return nil, err
		}
	}
	return req, nil
}

// ResponseBuilder writes the API envelopes. DTOs come from a sync.Pool.
type ResponseBuilder struct {
	c *gin.Context
}

// NewResponseBuilder creates a new response builder for the given context.
func NewResponseBuilder(c *gin.Context) *ResponseBuilder {
	return &ResponseBuilder{c: c}
}

// Success sends a successful response with the given data.
func (b *ResponseBuilder) Success(statusCode int, data interface{}) {
	resp := getSuccessResponse()
	resp.Data = data
	resp.RequestID = middleware.GetRequestID(b.c)
	resp.Timestamp = time.Now()

	// gin serializes synchronously, so the DTO can go back to the pool afterwards.
	b.c.JSON(statusCode, resp)
	putSuccessResponse(resp)
}

// SuccessOK sends a 200 OK response with the given data.
func (b *ResponseBuilder) SuccessOK(data interface{}) {
	b.Success(http.StatusOK, data)
}

// Error sends an error response whose code is derived from the status.
func (b *ResponseBuilder) Error(statusCode int, messageKey string, err error) {
	b.ErrorWithCode(statusCode, dto.ErrCodeFromStatus(statusCode), messageKey, nil, err)
}

// ErrorWithCode sends an error response with an explicit code, a translated
// message and optional details. err is attached to the context for the error
// handler middleware to log.
func (b *ResponseBuilder) ErrorWithCode(statusCode int, code, messageKey string, details map[string]string, err error) {
	resp := getErrorResponse()
	resp.Error = code
	resp.Message = i18n.GetTranslator().Translate(messageKey, i18n.GetLocale(b.c))
	resp.Details = details
	resp.RequestID = middleware.GetRequestID(b.c)
	resp.Timestamp = time.Now()

	if err != nil {
		_ = b.c.Error(err)
	}

	b.c.AbortWithStatusJSON(statusCode, resp)
	putErrorResponse(resp)
}

// PackingError translates a service error into its HTTP response.
func (b *ResponseBuilder) PackingError(err error) {
	var pe *packing.Error
	if errors.As(err, &pe) {
		key, ok := messageKeys[pe.Code]
		if !ok {
			key = i18n.ErrKeyInternalError
		}
		var details map[string]string
		if pe.Code != packing.CodeInternalValidationFailure && pe.Message != "" {
			details = map[string]string{"reason": pe.Message}
		}
		b.ErrorWithCode(dto.StatusFromCode(pe.Code), string(pe.Code), key, details, err)
		return
	}

	if errors.Is(err, context.DeadlineExceeded) {
		b.ErrorWithCode(http.StatusGatewayTimeout, dto.ErrCodeTimeout, i18n.ErrKeyTimeout, nil, err)
		return
	}
	b.Error(http.StatusInternalServerError, i18n.ErrKeyInternalError, err)
}
