package handler

import (
	"civicgo/backend/internal/complaint"
	"civicgo/backend/internal/livehub"
	"civicgo/backend/internal/storage"
	"civicgo/backend/internal/token"
)

// Handler тримає залежності всіх HTTP-обробників.
type Handler struct {
	Storage    storage.Storage
	Codec      *token.Codec
	Complaints *complaint.Service
	Hub        *livehub.Manager
	UploadDir  string
}

func NewHandler(s storage.Storage, codec *token.Codec, complaints *complaint.Service, hub *livehub.Manager, uploadDir string) *Handler {
	return &Handler{
		Storage:    s,
		Codec:      codec,
		Complaints: complaints,
		Hub:        hub,
		UploadDir:  uploadDir,
	}
}
