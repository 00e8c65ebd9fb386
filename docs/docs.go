// Package docs registers the storefront OpenAPI document with swag so that
// echo-swagger can serve it under /swagger.
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
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/products": {
            "get": {"tags": ["catalog"], "summary": "List products", "parameters": [
                {"type": "string", "name": "search", "in": "query"},
                {"type": "string", "name": "category_id", "in": "query"},
                {"type": "integer", "name": "inventory", "in": "query"},
                {"type": "string", "name": "ordering", "in": "query"},
                {"type": "integer", "name": "limit", "in": "query"},
                {"type": "integer", "name": "offset", "in": "query"}
            ], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["catalog"], "summary": "Create a product", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}, "400": {"description": "Validation failed"}}}
        },
        "/products/{id}": {
            "get": {"tags": ["catalog"], "summary": "Get a product", "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}},
            "put": {"tags": ["catalog"], "summary": "Update a product", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["catalog"], "summary": "Delete a product", "security": [{"BearerAuth": []}], "responses": {"204": {"description": "Deleted"}, "409": {"description": "Referenced by orders"}}}
        },
        "/products/{product_id}/comments": {
            "get": {"tags": ["catalog"], "summary": "List comments", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["catalog"], "summary": "Add a comment", "responses": {"201": {"description": "Created"}}}
        },
        "/categories": {
            "get": {"tags": ["catalog"], "summary": "List categories", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["catalog"], "summary": "Create a category", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}
        },
        "/categories/{id}": {
            "get": {"tags": ["catalog"], "summary": "Get a category", "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["catalog"], "summary": "Delete a category", "security": [{"BearerAuth": []}], "responses": {"204": {"description": "Deleted"}, "409": {"description": "Category has products"}}}
        },
        "/carts": {
            "post": {"tags": ["carts"], "summary": "Create an empty cart", "responses": {"201": {"description": "Created"}}}
        },
        "/carts/{cart_id}": {
            "get": {"tags": ["carts"], "summary": "Get a cart with items and total", "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}},
            "delete": {"tags": ["carts"], "summary": "Delete a cart", "responses": {"204": {"description": "Deleted"}}}
        },
        "/carts/{cart_id}/items": {
            "get": {"tags": ["carts"], "summary": "List cart items", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["carts"], "summary": "Add a product to the cart", "responses": {"201": {"description": "Created"}, "400": {"description": "Validation failed"}}}
        },
        "/customers/me": {
            "get": {"tags": ["customers"], "summary": "Current customer", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["customers"], "summary": "Update phone number and birth date", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/orders": {
            "get": {"tags": ["orders"], "summary": "List orders visible to the caller", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["orders"], "summary": "Convert a cart into an order", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}, "400": {"description": "Cart is empty"}, "404": {"description": "No cart with this id"}}}
        },
        "/orders/{id}": {
            "get": {"tags": ["orders"], "summary": "Get an order", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}},
            "patch": {"tags": ["orders"], "summary": "Change order status", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["orders"], "summary": "Delete an order", "security": [{"BearerAuth": []}], "responses": {"204": {"description": "Deleted"}}}
        },
        "/orders/{id}/receipt": {
            "get": {"tags": ["orders"], "summary": "Presigned link to the archived order snapshot", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/v1",
	Schemes:          []string{},
	Title:            "Storefront API",
	Description:      "Catalog, carts, customers and orders.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
