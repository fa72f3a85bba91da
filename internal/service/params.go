package service

import (
	"io"
	"time"
)

// UploadInput is one uploaded file. DeclaredType comes from the multipart part header.
type UploadInput struct {
	Filename     string
	DeclaredType string
	Body         io.Reader
}

type AddItemInput struct {
	AudioID  string
	Position *int // nil appends after the current maximum
}

type CreateUserInput struct {
	Username string
	Password string
	IsAdmin  bool
}

// LogFilter supports history filtering by time range and type.
type LogFilter struct {
	From time.Time // inclusive; zero means no lower bound
	To   time.Time // inclusive; zero means no upper bound
	Type string    // "", "UPLOAD", "USER_DELETE", ...
}
