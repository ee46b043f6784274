package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"claif-api/entities"
	"claif-api/repository"
)

func newTestRepo(t *testing.T) repository.Repository {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	repo := repository.NewWithDB(db)
	require.NoError(t, repo.Migrate())
	return repo
}

func newTestUser(t *testing.T, repo repository.Repository, username string) *entities.User {
	t.Helper()
	user := &entities.User{KeycloakID: "kc-" + username, Username: username}
	require.NoError(t, repo.CreateUser(context.Background(), user))
	return user
}

const plainCast = `{"version":2,"width":80,"height":24,"timestamp":1700000000,"idle_time_limit":1,"env":{"SHELL":"/bin/bash"}}` + "\n" +
	`[0.5,"o","hello"]` + "\n" +
	`[2.0,"o","world"]`

// one root annotation with two children: 3 nodes total
const annotatedCast = `{"version":2,"width":80,"height":24,"timestamp":1700000000,"idle_time_limit":1,"env":{},` +
	`"librecode_annotations":{"layers":[{"annotations":[` +
	`{"text":"root","beginning":0,"end":5000,"children":[` +
	`{"text":"child one","beginning":0,"end":2000},` +
	`{"text":"child two","beginning":2000,"end":5000}]}]}]}}` + "\n" +
	`[1.0,"o","a"]` + "\n" +
	`[5.0,"o","b"]`

// three roots with two children each: 9 nodes total
const wideAnnotatedHeader = `{"version":2,"width":80,"height":24,"timestamp":0,"idle_time_limit":1,"env":{},` +
	`"librecode_annotations":{"layers":[{"annotations":[` +
	`{"text":"r1","beginning":0,"end":1,"children":[{"text":"c1","beginning":0,"end":1},{"text":"c2","beginning":0,"end":1}]},` +
	`{"text":"r2","beginning":1,"end":2,"children":[{"text":"c3","beginning":1,"end":2},{"text":"c4","beginning":1,"end":2}]},` +
	`{"text":"r3","beginning":2,"end":3,"children":[{"text":"c5","beginning":2,"end":3},{"text":"c6","beginning":2,"end":3}]}` +
	`]}]}}`

const wideAnnotatedCast = wideAnnotatedHeader + "\n" + `[0.25,"o","x"]`

// failingRepo fails the nth CreateAnnotation call and passes everything
// else through; used to verify revision-level rollback.
type failingRepo struct {
	repository.Repository
	calls  int
	failOn int
}

func (f *failingRepo) CreateAnnotation(ctx context.Context, annotation *entities.Annotation) error {
	f.calls++
	if f.calls == f.failOn {
		return fmt.Errorf("injected failure on annotation insert %d", f.calls)
	}
	return f.Repository.CreateAnnotation(ctx, annotation)
}
