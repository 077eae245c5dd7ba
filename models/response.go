package models

// APIResponse is the uniform envelope for the HTTP surface.
type APIResponse struct {
    Status  string      `json:"status"`
    Message string      `json:"message"`
    Data    interface{} `json:"data,omitempty"`
}
