package handler

import (
	"github.com/d60-Lab/newsboard/internal/service"
)

// Handler HTTP 处理器集合
type Handler struct {
	svc    service.NewsgroupService
	access service.AccessControl
}

func New(svc service.NewsgroupService, access service.AccessControl) *Handler {
	return &Handler{svc: svc, access: access}
}
