package model

import "github.com/golang-jwt/jwt/v5"

// EditorClaims are the JWT claims for an authenticated schema editor.
type EditorClaims struct {
	EditorID string `json:"editorId"`
	jwt.RegisteredClaims
}

// LoginRequest is the credential payload for editor login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the issued editor token.
type LoginResponse struct {
	Token    string `json:"token"`
	EditorID string `json:"editorId"`
}
