package repository

import (
	"context"
	"database/sql"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"claif-api/dto"
	"claif-api/entities"
)

// Repository is the single persistence boundary. Methods invoked inside a
// Transaction callback run on the transaction's connection; the tx handle
// travels in the context.
type Repository interface {
	Transaction(ctx context.Context, callback func(ctx context.Context) error, opts ...*sql.TxOptions) error
	GetDB() *gorm.DB
	Migrate() error

	CreateRecording(ctx context.Context, recording *entities.Recording) error
	SetSourceRevision(ctx context.Context, recordingID, sourceRevisionID uint) error
	FindRecordingByID(ctx context.Context, id uint) (*entities.Recording, error)
	FindRecordingForUpdate(ctx context.Context, id uint) (*entities.Recording, error)
	FindLineage(ctx context.Context, sourceRevisionID uint) ([]entities.Recording, error)
	ListRecordings(ctx context.Context) ([]dto.RecordingSummary, error)
	SetRecordingPublished(ctx context.Context, id uint, published bool) error
	SetRecordingLocked(ctx context.Context, id uint, locked bool) error
	SetRecordingDeleted(ctx context.Context, id uint) error

	CreateAnnotation(ctx context.Context, annotation *entities.Annotation) error
	FindAnnotationByID(ctx context.Context, id uint) (*entities.Annotation, error)
	AnnotationsByRevision(ctx context.Context, recordingID uint, revisionNumber int) ([]entities.Annotation, error)
	CountAnnotationsByRecording(ctx context.Context, recordingID uint) (int64, error)
	IncrementAnnotationReviewsCount(ctx context.Context, id uint) error

	CreateAnnotationReview(ctx context.Context, review *entities.AnnotationReview) error
	ReviewsByRevision(ctx context.Context, recordingID uint, revisionNumber int) ([]entities.AnnotationReview, error)

	FindUserByKeycloakID(ctx context.Context, keycloakID string) (*entities.User, error)
	CreateUser(ctx context.Context, user *entities.User) error

	CreateAudioFile(ctx context.Context, audioFile *entities.AudioFile) error
	FindAudioFileByID(ctx context.Context, id uint) (*entities.AudioFile, error)
	SetAudioFileDeleted(ctx context.Context, id uint) error

	CreateDeletionRequest(ctx context.Context, request *entities.DeletionRequest) error
	FindDeletionRequestByID(ctx context.Context, id uint) (*entities.DeletionRequest, error)
	MarkDeletionRequestProcessed(ctx context.Context, id uint) error
}

type repo struct {
	db *gorm.DB
}

func NewRepo(db *sql.DB) Repository {
	gormDB, _ := gorm.Open(postgres.New(postgres.Config{
		Conn: db}),
		&gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		},
	)
	return NewWithDB(gormDB)
}

// NewWithDB wraps an already-open gorm connection. Tests use this with an
// in-memory sqlite database.
func NewWithDB(db *gorm.DB) Repository {
	return &repo{db: db}
}

func (r *repo) GetDB() *gorm.DB {
	return r.db
}

func (r *repo) Migrate() error {
	return r.db.AutoMigrate(
		&entities.User{},
		&entities.Recording{},
		&entities.Annotation{},
		&entities.AnnotationReview{},
		&entities.AudioFile{},
		&entities.DeletionRequest{},
	)
}

type txKey struct{}

// conn returns the transaction bound to ctx, or the root connection when no
// transaction is open.
func (r *repo) conn(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return r.db.WithContext(ctx)
}

func (r *repo) Transaction(ctx context.Context, callback func(ctx context.Context) error, opts ...*sql.TxOptions) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return callback(context.WithValue(ctx, txKey{}, tx))
	}, opts...)
}
