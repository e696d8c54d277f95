package adapters

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/toyz/routegen/pkg/axon"
)

// GinAdapter implements axon.Router for the Gin framework
type GinAdapter struct {
	routes gin.IRoutes
}

// NewGinAdapter mounts onto an engine or a router group
func NewGinAdapter(routes gin.IRoutes) *GinAdapter {
	return &GinAdapter{routes: routes}
}

// NewDefaultGinAdapter creates a new Gin adapter with a bare engine
func NewDefaultGinAdapter() (*GinAdapter, *gin.Engine) {
	engine := gin.New()
	return NewGinAdapter(engine), engine
}

// Name returns the adapter name
func (ga *GinAdapter) Name() string {
	return "Gin"
}

// Handle registers a handler with the Gin router
func (ga *GinAdapter) Handle(method string, path axon.AxonPath, handler axon.HandlerFunc) error {
	ginPath, err := path.Format(func(name string) string { return ":" + name }, "*path")
	if err != nil {
		return err
	}
	ga.routes.Handle(method, ginPath, ga.convertHandler(handler))
	return nil
}

// convertHandler converts axon.HandlerFunc to gin.HandlerFunc
func (ga *GinAdapter) convertHandler(handler axon.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestContext := &GinRequestContext{
			ctx:       c,
			requestID: axon.RequestIDFrom(c.GetHeader(axon.RequestIDHeader)),
		}
		c.Header(axon.RequestIDHeader, requestContext.requestID)

		if err := handler(requestContext); err != nil {
			code, body := axon.ErrorResponse(err)
			c.AbortWithStatusJSON(code, body)
		}
	}
}

// GinRequestContext implements axon.RequestContext for Gin
type GinRequestContext struct {
	ctx       *gin.Context
	requestID string
}

func (grc *GinRequestContext) Context() context.Context {
	return grc.ctx.Request.Context()
}

func (grc *GinRequestContext) RequestID() string {
	return grc.requestID
}

func (grc *GinRequestContext) Method() string {
	return grc.ctx.Request.Method
}

func (grc *GinRequestContext) Path() string {
	return grc.ctx.Request.URL.Path
}

// Param returns a path parameter. Gin keeps the catch-all under "path"
// with its leading slash.
func (grc *GinRequestContext) Param(name string) string {
	if name == "*" {
		return strings.TrimPrefix(grc.ctx.Param("path"), "/")
	}
	return grc.ctx.Param(name)
}

func (grc *GinRequestContext) QueryParam(name string) string {
	return grc.ctx.Query(name)
}

func (grc *GinRequestContext) Header(key string) string {
	return grc.ctx.GetHeader(key)
}

func (grc *GinRequestContext) Bind(i interface{}) error {
	if err := grc.ctx.ShouldBindJSON(i); err != nil {
		return axon.ErrBadRequest(err.Error())
	}
	return nil
}

func (grc *GinRequestContext) SetHeader(key, value string) {
	grc.ctx.Header(key, value)
}

func (grc *GinRequestContext) JSON(code int, i interface{}) error {
	grc.ctx.JSON(code, i)
	return nil
}

func (grc *GinRequestContext) String(code int, s string) error {
	grc.ctx.String(code, "%s", s)
	return nil
}

func (grc *GinRequestContext) NoContent(code int) error {
	grc.ctx.Status(code)
	grc.ctx.Writer.WriteHeaderNow()
	return nil
}
