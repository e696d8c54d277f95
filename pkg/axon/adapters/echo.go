package adapters

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/toyz/routegen/pkg/axon"
)

// EchoRoutes is satisfied by *echo.Echo and *echo.Group
type EchoRoutes interface {
	Add(method, path string, handler echo.HandlerFunc, middleware ...echo.MiddlewareFunc) *echo.Route
}

// EchoAdapter implements axon.Router for the Echo framework
type EchoAdapter struct {
	routes EchoRoutes
}

// NewEchoAdapter mounts onto an Echo instance or group
func NewEchoAdapter(routes EchoRoutes) *EchoAdapter {
	return &EchoAdapter{routes: routes}
}

// NewDefaultEchoAdapter creates a new Echo adapter with a default Echo instance
func NewDefaultEchoAdapter() (*EchoAdapter, *echo.Echo) {
	e := echo.New()
	e.HideBanner = true
	return NewEchoAdapter(e), e
}

// Name returns the adapter name
func (ea *EchoAdapter) Name() string {
	return "Echo"
}

// Handle registers a handler with the Echo router
func (ea *EchoAdapter) Handle(method string, path axon.AxonPath, handler axon.HandlerFunc) error {
	echoPath, err := path.Format(func(name string) string { return ":" + name }, "*")
	if err != nil {
		return err
	}
	ea.routes.Add(method, echoPath, ea.convertHandler(handler))
	return nil
}

// convertHandler converts axon.HandlerFunc to echo.HandlerFunc
func (ea *EchoAdapter) convertHandler(handler axon.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := &EchoRequestContext{
			context:   c,
			requestID: axon.RequestIDFrom(c.Request().Header.Get(axon.RequestIDHeader)),
		}
		c.Response().Header().Set(axon.RequestIDHeader, ctx.requestID)

		if err := handler(ctx); err != nil {
			code, body := axon.ErrorResponse(err)
			return c.JSON(code, body)
		}
		return nil
	}
}

// EchoRequestContext implements axon.RequestContext for Echo
type EchoRequestContext struct {
	context   echo.Context
	requestID string
}

func (erc *EchoRequestContext) Context() context.Context {
	return erc.context.Request().Context()
}

func (erc *EchoRequestContext) RequestID() string {
	return erc.requestID
}

func (erc *EchoRequestContext) Method() string {
	return erc.context.Request().Method
}

func (erc *EchoRequestContext) Path() string {
	return erc.context.Request().URL.Path
}

func (erc *EchoRequestContext) Param(key string) string {
	return erc.context.Param(key)
}

func (erc *EchoRequestContext) QueryParam(key string) string {
	return erc.context.QueryParam(key)
}

func (erc *EchoRequestContext) Header(key string) string {
	return erc.context.Request().Header.Get(key)
}

func (erc *EchoRequestContext) Bind(i interface{}) error {
	if err := erc.context.Bind(i); err != nil {
		return axon.ErrBadRequest(err.Error())
	}
	return nil
}

func (erc *EchoRequestContext) SetHeader(key, value string) {
	erc.context.Response().Header().Set(key, value)
}

func (erc *EchoRequestContext) JSON(code int, i interface{}) error {
	return erc.context.JSON(code, i)
}

func (erc *EchoRequestContext) String(code int, s string) error {
	return erc.context.String(code, s)
}

func (erc *EchoRequestContext) NoContent(code int) error {
	return erc.context.NoContent(code)
}
