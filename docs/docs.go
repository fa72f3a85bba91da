// Package docs registers the OpenAPI description served at /swagger.
// Regenerate with: swag init -g cmd/main.go
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
        "/health": {"get": {"tags": ["health"], "summary": "Liveness probe", "responses": {"200": {"description": "OK"}}}},
        "/login": {"post": {"tags": ["auth"], "summary": "Exchange credentials for a bearer token",
            "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.loginRequest"}}],
            "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.tokenResponse"}}, "401": {"description": "Unauthorized"}, "429": {"description": "Too Many Requests"}}}},
        "/audio": {"post": {"security": [{"BearerAuth": []}], "tags": ["audio"], "summary": "Upload an audio file", "consumes": ["multipart/form-data"],
            "parameters": [{"type": "file", "name": "file", "in": "formData", "required": true}],
            "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.AudioFile"}}, "400": {"description": "Bad Request"}}}},
        "/audio/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["audio"], "summary": "Stream an audio file", "produces": ["application/octet-stream"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["audio"], "summary": "Delete an audio file",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.DeletionSummary"}}}}},
        "/users/{id}/audio": {"get": {"security": [{"BearerAuth": []}], "tags": ["audio"], "summary": "List a user's audio files, newest first",
            "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
            "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.AudioFile"}}}}}},
        "/playlists": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["playlists"], "summary": "List playlists",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Playlist"}}}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["playlists"], "summary": "Create a playlist owned by the caller",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.createPlaylistRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Playlist"}}}}},
        "/playlists/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["playlists"], "summary": "Get a playlist with its items ordered by position",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.PlaylistWithItems"}}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["playlists"], "summary": "Delete a playlist and its items",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.DeletionSummary"}}}}},
        "/playlists/{id}/items": {"post": {"security": [{"BearerAuth": []}], "tags": ["playlists"], "summary": "Add an audio file to a playlist",
            "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}, {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.addItemRequest"}}],
            "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.PlaylistItem"}}}}},
        "/playlists/{id}/items/{item_id}": {"delete": {"security": [{"BearerAuth": []}], "tags": ["playlists"], "summary": "Remove an item from a playlist",
            "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}, {"type": "string", "name": "item_id", "in": "path", "required": true}],
            "responses": {"204": {"description": "No Content"}}}},
        "/users": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "List users (admin only)",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.User"}}}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "Create a user (admin only)",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.createUserRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.User"}}}}},
        "/users/{id}": {"delete": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "Delete a user and everything they own (admin only)",
            "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
            "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.DeletionSummary"}}, "409": {"description": "Conflict"}}}},
        "/admin/events": {"get": {"security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "List library events (admin only)",
            "parameters": [{"type": "string", "name": "from", "in": "query"}, {"type": "string", "name": "to", "in": "query"}, {"type": "string", "name": "type", "in": "query"}],
            "responses": {"200": {"description": "count, events"}}}},
        "/admin/stats": {"get": {"security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "Library counters and blob usage (admin only)",
            "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.LibraryStats"}}}}}
    },
    "definitions": {
        "handlers.loginRequest": {"type": "object", "required": ["username", "password"], "properties": {"username": {"type": "string"}, "password": {"type": "string"}}},
        "handlers.tokenResponse": {"type": "object", "properties": {"token": {"type": "string"}}},
        "handlers.createPlaylistRequest": {"type": "object", "required": ["name"], "properties": {"name": {"type": "string"}}},
        "handlers.addItemRequest": {"type": "object", "required": ["audio_id"], "properties": {"audio_id": {"type": "string"}, "position": {"type": "integer"}}},
        "handlers.createUserRequest": {"type": "object", "required": ["username", "password"], "properties": {"username": {"type": "string"}, "password": {"type": "string"}, "is_admin": {"type": "boolean"}}},
        "models.User": {"type": "object", "properties": {"id": {"type": "string"}, "username": {"type": "string"}, "is_admin": {"type": "boolean"}}},
        "models.AudioFile": {"type": "object", "properties": {"id": {"type": "string"}, "filename": {"type": "string"}, "user_id": {"type": "string"}, "created_at": {"type": "string"}, "mime_type": {"type": "string"}}},
        "models.Playlist": {"type": "object", "properties": {"id": {"type": "string"}, "name": {"type": "string"}, "user_id": {"type": "string"}, "created_at": {"type": "string"}}},
        "models.PlaylistItem": {"type": "object", "properties": {"id": {"type": "string"}, "playlist_id": {"type": "string"}, "audio_id": {"type": "string"}, "position": {"type": "integer"}}},
        "models.PlaylistAudioItem": {"type": "object", "properties": {"id": {"type": "string"}, "audio_id": {"type": "string"}, "position": {"type": "integer"}, "filename": {"type": "string"}, "mime_type": {"type": "string"}}},
        "models.PlaylistWithItems": {"type": "object", "properties": {"id": {"type": "string"}, "name": {"type": "string"}, "user_id": {"type": "string"}, "created_at": {"type": "string"}, "items": {"type": "array", "items": {"$ref": "#/definitions/models.PlaylistAudioItem"}}}},
        "models.DeletionSummary": {"type": "object", "properties": {"user_id": {"type": "string"}, "playlist_id": {"type": "string"}, "audio_id": {"type": "string"}, "referencing_items": {"type": "integer"}, "audio_files": {"type": "integer"}, "owned_playlist_items": {"type": "integer"}, "playlists": {"type": "integer"}, "users": {"type": "integer"}, "blobs_deleted": {"type": "integer"}, "blob_delete_errors": {"type": "integer"}}},
        "models.LibraryStats": {"type": "object", "properties": {"users": {"type": "integer"}, "audio_files": {"type": "integer"}, "playlists": {"type": "integer"}, "playlist_items": {"type": "integer"}, "blob_bytes": {"type": "integer"}, "blob_files": {"type": "integer"}, "taken_at": {"type": "string"}}}
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "audiovault API",
	Description:      "Multi-user audio library: uploads, playlists and cascading deletes.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
