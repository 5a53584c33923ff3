package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/labelvault-backend/internal/idcrypt"
	"github.com/yungbote/labelvault-backend/internal/logger"
	apperrors "github.com/yungbote/labelvault-backend/internal/pkg/errors"
	"github.com/yungbote/labelvault-backend/internal/repos"
	"github.com/yungbote/labelvault-backend/internal/types"
)

// RawDocumentService is the content-addressed store for original SPL
// payloads. Identity is the pair (content hash, document instance GUID):
// the same bytes re-submitted under a different instance GUID are a new
// submission, not a duplicate.
type RawDocumentService interface {
	IsDuplicate(ctx context.Context, tx *gorm.DB, xmlText string, instanceGUID uuid.UUID) (bool, error)
	GetOrCreate(ctx context.Context, tx *gorm.DB, xmlText string, instanceGUID uuid.UUID, ownerID *uuid.UUID) (string, error)
	Create(ctx context.Context, tx *gorm.DB, xmlText string, instanceGUID uuid.UUID, ownerID *uuid.UUID) (string, error)
	ArchiveByExternalID(ctx context.Context, tx *gorm.DB, externalID string) error
	ListPage(ctx context.Context, tx *gorm.DB, offset, limit int) ([]*types.RawDocument, int64, error)
}

type rawDocumentService struct {
	db    *gorm.DB
	log   *logger.Logger
	repo  repos.RawDocumentRepo
	codec *idcrypt.Codec
}

func NewRawDocumentService(db *gorm.DB, baseLog *logger.Logger, repo repos.RawDocumentRepo, codec *idcrypt.Codec) RawDocumentService {
	serviceLog := baseLog.With("service", "RawDocumentService")
	return &rawDocumentService{db: db, log: serviceLog, repo: repo, codec: codec}
}

// NormalizeContent collapses CRLF/CR line endings to LF and trims outer
// whitespace so functionally identical payloads hash identically.
func NormalizeContent(xmlText string) string {
	normalized := strings.ReplaceAll(xmlText, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")
	return strings.TrimSpace(normalized)
}

// ContentHash returns the lowercase hex SHA-256 of the normalized text.
func ContentHash(xmlText string) string {
	sum := sha256.Sum256([]byte(NormalizeContent(xmlText)))
	return hex.EncodeToString(sum[:])
}

func (s *rawDocumentService) IsDuplicate(ctx context.Context, tx *gorm.DB, xmlText string, instanceGUID uuid.UUID) (bool, error) {
	hash := ContentHash(xmlText)
	_, err := s.repo.GetActiveByHashAndGUID(ctx, tx, hash, instanceGUID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *rawDocumentService) GetOrCreate(ctx context.Context, tx *gorm.DB, xmlText string, instanceGUID uuid.UUID, ownerID *uuid.UUID) (string, error) {
	hash := ContentHash(xmlText)
	existing, err := s.repo.GetActiveByHashAndGUID(ctx, tx, hash, instanceGUID)
	if err == nil {
		s.log.Debug("Raw document already stored", "document_guid", instanceGUID)
		return s.codec.Encode(existing.ID), nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return "", err
	}
	return s.Create(ctx, tx, xmlText, instanceGUID, ownerID)
}

func (s *rawDocumentService) Create(ctx context.Context, tx *gorm.DB, xmlText string, instanceGUID uuid.UUID, ownerID *uuid.UUID) (string, error) {
	// The hash is over the normalized form; the stored payload is the
	// submission byte for byte, so retrieval is lossless.
	row := &types.RawDocument{
		ID:           uuid.New(),
		DocumentGUID: instanceGUID,
		RawXML:       xmlText,
		ContentHash:  ContentHash(xmlText),
		OwnerID:      ownerID,
		CreatedAt:    time.Now(),
	}
	if _, err := s.repo.Create(ctx, tx, row); err != nil {
		return "", fmt.Errorf("store raw document %s: %w", instanceGUID, err)
	}
	s.log.Info("Stored raw document", "document_guid", instanceGUID, "content_hash", row.ContentHash)
	return s.codec.Encode(row.ID), nil
}

func (s *rawDocumentService) ArchiveByExternalID(ctx context.Context, tx *gorm.DB, externalID string) error {
	id, err := s.codec.Decode(externalID)
	if err != nil {
		return err
	}
	if err := s.repo.ArchiveByID(ctx, tx, id); err != nil {
		return fmt.Errorf("archive raw document: %w", err)
	}
	s.log.Info("Archived raw document", "external_id", externalID)
	return nil
}

func (s *rawDocumentService) ListPage(ctx context.Context, tx *gorm.DB, offset, limit int) ([]*types.RawDocument, int64, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.repo.ListPage(ctx, tx, offset, limit)
}
