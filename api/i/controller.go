package i

import "github.com/gin-gonic/gin"

// Controller registers its routes on the router's public and protected groups.
type Controller interface {
	// RegisterPublic adds routes that need no driver token.
	RegisterPublic(*gin.RouterGroup)
	// RegisterProtected adds routes behind the authorization middleware.
	RegisterProtected(*gin.RouterGroup)
}
