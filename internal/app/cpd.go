package app

import (
	"context"

	"edubackend/internal/dispatch"
	"edubackend/internal/domain"
	"edubackend/internal/domain/models"
	"edubackend/internal/repositories"
	"edubackend/internal/services"
	"edubackend/internal/utils"
)

type CPDRecordDTO struct {
	ID           domain.ID `json:"id"`
	UserID       domain.ID `json:"userId"`
	Activity     string    `json:"activity"`
	Hours        float64   `json:"hours"`
	ActivityDate string    `json:"activityDate"`
	CreatedAt    string    `json:"createdAt"`
}

func toCPDRecordDTO(r models.CPDRecord) CPDRecordDTO {
	return CPDRecordDTO{
		ID:           r.ID,
		UserID:       r.UserID,
		Activity:     r.Activity,
		Hours:        r.Hours,
		ActivityDate: r.ActivityDate,
		CreatedAt:    formatTime(r.CreatedAt),
	}
}

// CertificateFile carries a rendered PDF. The transport layer streams
// Content instead of JSON-encoding the envelope data.
type CertificateFile struct {
	FileName string `json:"fileName"`
	Content  []byte `json:"-"`
}

type ListCPDRecordsRequest struct {
	dispatch.PageRequest
}

func (ListCPDRecordsRequest) RequestName() string { return "cpd.list" }

type CreateCPDRecordRequest struct {
	Activity     string  `json:"activity"`
	Hours        float64 `json:"hours"`
	ActivityDate string  `json:"activityDate"`
}

func (CreateCPDRecordRequest) RequestName() string { return "cpd.create" }

type GetCPDCertificateRequest struct {
	ID domain.ID
}

func (GetCPDCertificateRequest) RequestName() string { return "cpd.certificate" }

type CPDHandlers struct {
	Repo  repositories.CPDRepository
	Users repositories.UserRepository
	Certs services.CertificateService
}

func (h CPDHandlers) Register(m *dispatch.Mux) error {
	if err := dispatch.Register(m, h.List); err != nil {
		return err
	}
	if err := dispatch.Register(m, h.Create); err != nil {
		return err
	}
	return dispatch.Register(m, h.Certificate)
}

// List returns the caller's own CPD records; there is no cross-teacher view.
func (h CPDHandlers) List(ctx context.Context, actor dispatch.Actor, req ListCPDRecordsRequest) (dispatch.Result[dispatch.PageResult[CPDRecordDTO]], error) {
	items, total, err := h.Repo.ListByUser(ctx, actor.UserID, req.PageRequest)
	if err != nil {
		return failureFrom[dispatch.PageResult[CPDRecordDTO]](err)
	}
	dtos := make([]CPDRecordDTO, 0, len(items))
	for _, r := range items {
		dtos = append(dtos, toCPDRecordDTO(r))
	}
	return dispatch.Success(dispatch.NewPageResult(dtos, total, req.PageRequest)), nil
}

func (h CPDHandlers) Create(ctx context.Context, actor dispatch.Actor, req CreateCPDRecordRequest) (dispatch.Result[CPDRecordDTO], error) {
	activity := utils.NormalizeSpace(req.Activity)
	if activity == "" {
		return invalid[CPDRecordDTO]("activity is required")
	}
	if req.Hours <= 0 {
		return invalid[CPDRecordDTO]("hours must be positive")
	}
	rec, err := h.Repo.Create(ctx, models.CPDRecord{
		UserID:       actor.UserID,
		Activity:     activity,
		Hours:        req.Hours,
		ActivityDate: utils.TrimOrEmpty(req.ActivityDate),
	})
	if err != nil {
		return failureFrom[CPDRecordDTO](err)
	}
	return dispatch.SuccessMsg(toCPDRecordDTO(rec), "cpd record created"), nil
}

func (h CPDHandlers) Certificate(ctx context.Context, actor dispatch.Actor, req GetCPDCertificateRequest) (dispatch.Result[CertificateFile], error) {
	rec, err := h.Repo.GetByID(ctx, req.ID)
	if err != nil {
		return failureFrom[CertificateFile](err)
	}
	if actor.Role != domain.RoleAdmin && rec.UserID != actor.UserID {
		return dispatch.Failure[CertificateFile]("cpd record belongs to another teacher", domain.CodeForbidden), nil
	}
	teacher, err := h.Users.GetByID(ctx, rec.UserID)
	if err != nil {
		return failureFrom[CertificateFile](err)
	}
	content, name, err := h.Certs.Generate(rec, teacher)
	if err != nil {
		return dispatch.Result[CertificateFile]{}, err
	}
	return dispatch.Success(CertificateFile{FileName: name, Content: content}), nil
}
