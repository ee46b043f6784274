package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"claif-api/asciicast"
	"claif-api/constant"
	"claif-api/dto"
	"claif-api/entities"
	"claif-api/repository"
)

type RecordingService interface {
	Create(ctx context.Context, creatorID uint, req dto.RecordingCreateRequest, content string) (*entities.Recording, error)
	CreateTranscription(ctx context.Context, creatorID uint, req dto.TranscriptionCreateRequest, content string) (*entities.Recording, error)
	Update(ctx context.Context, creatorID uint, req dto.RecordingUpdateRequest) (*entities.Recording, error)
	Read(ctx context.Context, recordingID uint, revisionNumber *int) (*dto.RecordingView, error)
	List(ctx context.Context) ([]dto.RecordingSummary, error)
	TogglePublish(ctx context.Context, creatorID uint, req dto.RecordingTogglePublishRequest) error
	ToggleLock(ctx context.Context, creatorID uint, req dto.RecordingToggleLockRequest) error
}

type recordingService struct {
	repo repository.Repository
}

func NewRecordingService(repo repository.Repository) RecordingService {
	return &recordingService{repo: repo}
}

// Create ingests a full recording: parse, derive size and duration, then
// persist the revision 1 row and its annotation forest in one transaction.
func (s *recordingService) Create(ctx context.Context, creatorID uint, req dto.RecordingCreateRequest, content string) (*entities.Recording, error) {
	recording, forest, err := s.buildFromContent(ctx, creatorID, req.Title, req.Description, content)
	if err != nil {
		return nil, err
	}
	recording.RecordingType = constant.RecordingTypeTerminal
	if err := s.ingest(ctx, recording, forest); err != nil {
		return nil, err
	}
	return recording, nil
}

// CreateTranscription runs the same pipeline for an audio transcription
// cast, linked to an uploaded audio file.
func (s *recordingService) CreateTranscription(ctx context.Context, creatorID uint, req dto.TranscriptionCreateRequest, content string) (*entities.Recording, error) {
	if _, err := s.repo.FindAudioFileByID(ctx, req.AudioFileID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.Join(ErrNotFound, fmt.Errorf("audio file %d", req.AudioFileID))
		}
		return nil, err
	}
	recording, forest, err := s.buildFromContent(ctx, creatorID, req.Title, req.Description, content)
	if err != nil {
		return nil, err
	}
	recording.RecordingType = constant.RecordingTypeAudioTranscription
	audioFileID := req.AudioFileID
	recording.AudioFileID = &audioFileID
	if err := s.ingest(ctx, recording, forest); err != nil {
		return nil, err
	}
	return recording, nil
}

func (s *recordingService) buildFromContent(ctx context.Context, creatorID uint, title, description, content string) (*entities.Recording, []asciicast.Node, error) {
	header, events, forest, err := asciicast.Parse(ctx, content)
	if err != nil {
		return nil, nil, errors.Join(ErrValidation, err)
	}
	metadata, err := header.Marshal()
	if err != nil {
		return nil, nil, err
	}
	body, err := asciicast.MarshalBody(events)
	if err != nil {
		return nil, nil, err
	}
	recording := &entities.Recording{
		Title:                title,
		Description:          description,
		RevisionNumber:       1,
		SizeBytes:            int64(len(metadata) + len(body)),
		DurationMilliseconds: asciicast.Duration(events),
		ContentMetadata:      metadata,
		ContentBody:          &body,
		AnnotationsCount:     asciicast.CountNodes(forest),
		CreatorID:            creatorID,
	}
	return recording, forest, nil
}

// Update appends a new revision to the recording's lineage. Only the header
// metadata can be re-supplied; the event body is not re-uploaded, so the new
// revision carries a NULL body and keeps the previous duration. The latest
// revision row is locked for the duration of the transaction; the unique
// index on (source_revision_id, revision_number) rejects a forked lineage
// regardless.
func (s *recordingService) Update(ctx context.Context, creatorID uint, req dto.RecordingUpdateRequest) (*entities.Recording, error) {
	var updated *entities.Recording
	err := s.repo.Transaction(ctx, func(ctx context.Context) error {
		current, err := s.repo.FindRecordingForUpdate(ctx, req.RecordingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.Join(ErrNotFound, fmt.Errorf("recording %d", req.RecordingID))
			}
			return err
		}
		if current.CreatorID != creatorID {
			return errors.Join(ErrForbidden, fmt.Errorf("recording %d", req.RecordingID))
		}

		metadata := current.ContentMetadata
		if req.ContentMetadata != nil {
			metadata = *req.ContentMetadata
		}
		header := &asciicast.Header{}
		if err := json.Unmarshal([]byte(metadata), header); err != nil {
			return errors.Join(ErrValidation, asciicast.ErrInvalidHeader, err)
		}
		forest, err := asciicast.ExtractAnnotations(header)
		if err != nil {
			return errors.Join(ErrValidation, err)
		}
		canonical, err := header.Marshal()
		if err != nil {
			return err
		}

		title := current.Title
		if req.Title != nil {
			title = *req.Title
		}
		description := current.Description
		if req.Description != nil {
			description = *req.Description
		}

		previousID := current.ID
		updated = &entities.Recording{
			RecordingType:        current.RecordingType,
			Title:                title,
			Description:          description,
			RevisionNumber:       current.RevisionNumber + 1,
			SourceRevisionID:     current.SourceRevisionID,
			PreviousRevisionID:   &previousID,
			SizeBytes:            int64(len(canonical)),
			DurationMilliseconds: current.DurationMilliseconds,
			ContentMetadata:      canonical,
			AnnotationsCount:     asciicast.CountNodes(forest),
			AudioFileID:          current.AudioFileID,
			CreatorID:            creatorID,
		}
		return s.ingestTx(ctx, updated, forest)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Read resolves a concrete recording row and returns it with the
// annotations and reviews of the requested revision only. The revision
// defaults to the row's own.
func (s *recordingService) Read(ctx context.Context, recordingID uint, revisionNumber *int) (*dto.RecordingView, error) {
	recording, err := s.repo.FindRecordingByID(ctx, recordingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.Join(ErrNotFound, fmt.Errorf("recording %d", recordingID))
		}
		return nil, err
	}
	revision := recording.RevisionNumber
	if revisionNumber != nil {
		revision = *revisionNumber
	}
	annotations, err := s.repo.AnnotationsByRevision(ctx, recording.ID, revision)
	if err != nil {
		return nil, err
	}
	reviews, err := s.repo.ReviewsByRevision(ctx, recording.ID, revision)
	if err != nil {
		return nil, err
	}
	return &dto.RecordingView{
		Recording:         recording,
		Annotations:       annotations,
		AnnotationReviews: reviews,
	}, nil
}

func (s *recordingService) List(ctx context.Context) ([]dto.RecordingSummary, error) {
	return s.repo.ListRecordings(ctx)
}

func (s *recordingService) TogglePublish(ctx context.Context, creatorID uint, req dto.RecordingTogglePublishRequest) error {
	if err := s.checkOwner(ctx, creatorID, req.RecordingID); err != nil {
		return err
	}
	return s.repo.SetRecordingPublished(ctx, req.RecordingID, req.IsPublished)
}

func (s *recordingService) ToggleLock(ctx context.Context, creatorID uint, req dto.RecordingToggleLockRequest) error {
	if err := s.checkOwner(ctx, creatorID, req.RecordingID); err != nil {
		return err
	}
	return s.repo.SetRecordingLocked(ctx, req.RecordingID, req.IsLocked)
}

func (s *recordingService) checkOwner(ctx context.Context, creatorID, recordingID uint) error {
	recording, err := s.repo.FindRecordingByID(ctx, recordingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.Join(ErrNotFound, fmt.Errorf("recording %d", recordingID))
		}
		return err
	}
	if recording.CreatorID != creatorID {
		return errors.Join(ErrForbidden, fmt.Errorf("recording %d", recordingID))
	}
	return nil
}

// ingest persists a recording revision and its annotation forest in one
// transaction. Any failure rolls the whole revision back.
func (s *recordingService) ingest(ctx context.Context, recording *entities.Recording, forest []asciicast.Node) error {
	return s.repo.Transaction(ctx, func(ctx context.Context) error {
		return s.ingestTx(ctx, recording, forest)
	})
}

// ingestTx is the transactional body of ingest; callers must already hold a
// transaction in ctx.
func (s *recordingService) ingestTx(ctx context.Context, recording *entities.Recording, forest []asciicast.Node) error {
	if err := s.repo.CreateRecording(ctx, recording); err != nil {
		return err
	}
	if recording.SourceRevisionID == nil {
		// revision 1 roots its own lineage; the self-reference can only be
		// written once the generated id is known
		if err := s.repo.SetSourceRevision(ctx, recording.ID, recording.ID); err != nil {
			return err
		}
		selfID := recording.ID
		recording.SourceRevisionID = &selfID
	}
	persisted, err := s.persistForest(ctx, forest, recording.ID, recording.RevisionNumber, recording.CreatorID)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Uint("recording_id", recording.ID).Msg("annotation persistence failed, rolling back revision")
		return err
	}
	if persisted != recording.AnnotationsCount {
		return fmt.Errorf("persisted %d annotations, expected %d", persisted, recording.AnnotationsCount)
	}
	return nil
}

// persistForest inserts the forest depth-first so every parent row has its
// generated id before any child references it. Returns the total number of
// rows written, children included.
func (s *recordingService) persistForest(ctx context.Context, forest []asciicast.Node, recordingID uint, revisionNumber int, creatorID uint) (int, error) {
	total := 0
	for _, node := range forest {
		count, err := s.persistNode(ctx, node, recordingID, revisionNumber, creatorID, nil)
		if err != nil {
			return 0, err
		}
		total += count
	}
	return total, nil
}

func (s *recordingService) persistNode(ctx context.Context, node asciicast.Node, recordingID uint, revisionNumber int, creatorID uint, parentID *uint) (int, error) {
	annotation := &entities.Annotation{
		RecordingID:           recordingID,
		RevisionNumber:        revisionNumber,
		ParentAnnotationID:    parentID,
		AnnotationText:        node.Text,
		StartTimeMilliseconds: node.Beginning,
		EndTimeMilliseconds:   node.End,
		ChildrenCount:         len(node.Children),
		CreatorID:             creatorID,
	}
	if err := s.repo.CreateAnnotation(ctx, annotation); err != nil {
		return 0, err
	}
	total := 1
	for _, child := range node.Children {
		count, err := s.persistNode(ctx, child, recordingID, revisionNumber, creatorID, &annotation.ID)
		if err != nil {
			return 0, err
		}
		total += count
	}
	return total, nil
}
