package services

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"unimarket/internal/domain/upload"
	"unimarket/internal/repository"
	"unimarket/internal/storage"
	apperrors "unimarket/pkg/errors"

	"github.com/google/uuid"
)

// maxUploadBytes caps a single attachment at 25 MiB.
const maxUploadBytes = 25 << 20

type UploadService struct {
	repo    repository.UploadRepository
	storage *storage.Client
}

func NewUploadService(repo repository.UploadRepository, storage *storage.Client) *UploadService {
	return &UploadService{repo: repo, storage: storage}
}

type PresignInput struct {
	UploaderID  uuid.UUID
	FileName    string
	ContentType string
	SizeBytes   int64
}

type PresignResult struct {
	Session   upload.Session
	UploadURL string
}

// CreatePresignedUpload records an upload session and hands back a presigned
// PUT URL. The resulting public URL is what clients pass around as an
// attachment reference.
func (s *UploadService) CreatePresignedUpload(ctx context.Context, in PresignInput) (PresignResult, error) {
	if s.storage == nil {
		return PresignResult{}, errors.New("s3 storage is not configured")
	}
	if in.UploaderID == uuid.Nil || in.FileName == "" || in.ContentType == "" || in.SizeBytes <= 0 {
		return PresignResult{}, fmt.Errorf("%w: file name, content type and size are required", apperrors.ErrInvalidInput)
	}
	if in.SizeBytes > maxUploadBytes {
		return PresignResult{}, fmt.Errorf("%w: file exceeds the %d byte limit", apperrors.ErrInvalidInput, maxUploadBytes)
	}

	ext := strings.ToLower(path.Ext(in.FileName))
	key := fmt.Sprintf("uploads/%s/%s%s", in.UploaderID, uuid.New(), ext)

	uploadURL, err := s.storage.PresignPut(ctx, key, in.ContentType, in.SizeBytes)
	if err != nil {
		return PresignResult{}, err
	}

	session := upload.Session{
		ID:          uuid.New(),
		UploaderID:  in.UploaderID,
		ObjectKey:   key,
		FileName:    in.FileName,
		ContentType: in.ContentType,
		SizeBytes:   in.SizeBytes,
		PublicURL:   s.storage.PublicURL(key),
		Status:      upload.StatusPending,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := s.repo.Create(ctx, &session); err != nil {
		return PresignResult{}, err
	}

	return PresignResult{Session: session, UploadURL: uploadURL}, nil
}

// Complete marks a session uploaded after an ownership check.
func (s *UploadService) Complete(ctx context.Context, sessionID, requesterID uuid.UUID) (upload.Session, error) {
	session, err := s.repo.GetByID(ctx, sessionID)
	if err != nil {
		return upload.Session{}, err
	}
	if session.UploaderID != requesterID {
		return upload.Session{}, apperrors.ErrForbidden
	}
	if err := s.repo.UpdateStatus(ctx, sessionID, upload.StatusCompleted); err != nil {
		return upload.Session{}, err
	}
	session.Status = upload.StatusCompleted
	return session, nil
}

func (s *UploadService) ListByUploader(ctx context.Context, uploaderID uuid.UUID) ([]upload.Session, error) {
	return s.repo.ListByUploader(ctx, uploaderID)
}
