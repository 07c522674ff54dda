// Package docs Agoge LMS API documentation
package docs

// Swagger documentation info
// @title Agoge LMS API
// @version 1.0
// @description Multi-tenant learning management backend - companies, users, dashboard branding, course catalog and team management

// @host localhost:8000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT token.

// @tag.name auth
// @tag.description Token obtain and refresh
// @tag.name users
// @tag.description User management
// @tag.name companies
// @tag.description Company management
// @tag.name settings
// @tag.description Company dashboard settings
// @tag.name catalog
// @tag.description Course catalog and purchases
// @tag.name team
// @tag.description Team members, invitations and live events
