// Package docs holds the generated swagger registration.
// Regenerate with: swag init -g cmd/api/main.go -o docs
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/auth/register": {
            "post": {
                "tags": ["auth"],
                "summary": "Register a new user",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "User login",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/auth/logout": {
            "post": {
                "tags": ["auth"],
                "summary": "User logout",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/auth/send-verify-otp": {
            "post": {
                "tags": ["auth"],
                "summary": "Send email verification OTP",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/auth/verify-email": {
            "post": {
                "tags": ["auth"],
                "summary": "Verify email address",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/auth/is-auth": {
            "post": {
                "tags": ["auth"],
                "summary": "Session check",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/auth/send-reset-otp": {
            "post": {
                "tags": ["auth"],
                "summary": "Send password reset OTP",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/auth/reset-password": {
            "post": {
                "tags": ["auth"],
                "summary": "Reset password",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/user/data": {
            "get": {
                "tags": ["user"],
                "summary": "Current user data",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/health": {
            "get": {
                "tags": ["health"],
                "summary": "Health check",
                "responses": {"200": {"description": "OK"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Auth API",
	Description:      "User registration, login, email-OTP verification and password reset over cookie sessions.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
