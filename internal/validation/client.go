// Package validation asks the access-control service whether a plate may enter.
package validation

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/cci-ingenieria/lectorqr/internal/log"
)

// Messages shown when the service gives no usable answer.
const (
	DefaultMessage = "Sin respuesta"
	ErrorMessage   = "Error al validar placa"
)

// Result is the access decision for one plate.
type Result struct {
	Allowed  bool
	Message  string
	Location string // assigned puesto, empty if none
}

// Failure is the result reported for any unsuccessful validation.
func Failure() Result {
	return Result{Allowed: false, Message: ErrorMessage}
}

type request struct {
	Plate string `json:"placa"`
}

type response struct {
	Message  *string `json:"mensaje"`
	Allowed  *bool   `json:"permitido"`
	Location *string `json:"puesto"`
}

// Client posts plates to the validation endpoint.
type Client struct {
	restyClient *resty.Client
	url         string
}

// NewClient creates a client for url with the given request timeout.
func NewClient(url string, timeout time.Duration) *Client {
	restyClient := resty.New().
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json")

	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}
	restyClient.SetTransport(transport)

	return &Client{
		restyClient: restyClient,
		url:         url,
	}
}

// Validate never fails: transport and protocol errors come back as Failure().
func (c *Client) Validate(ctx context.Context, plate string) Result {
	resp, err := c.restyClient.R().
		SetContext(ctx).
		SetBody(request{Plate: plate}).
		Post(c.url)
	if err != nil {
		log.Warn("validate plate: request failed", "plate", plate, "error", err)
		return Failure()
	}

	if resp.StatusCode() != http.StatusOK {
		log.Warn("validate plate: bad status", "plate", plate, "status", resp.Status())
		return Failure()
	}

	result, err := decode(resp.Body())
	if err != nil {
		log.Warn("validate plate: decode response", "plate", plate, "error", err)
		return Failure()
	}
	log.Info("plate validated", "plate", plate, "allowed", result.Allowed, "location", result.Location)
	return result
}

func decode(body []byte) (Result, error) {
	var r response
	if err := json.Unmarshal(body, &r); err != nil {
		return Result{}, err
	}

	result := Result{Message: DefaultMessage}
	if r.Message != nil {
		result.Message = *r.Message
	}
	if r.Allowed != nil {
		result.Allowed = *r.Allowed
	}
	if r.Location != nil {
		result.Location = *r.Location
	}
	return result, nil
}
