package database

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/rpupo63/teamforge-backend/errs"
)

// Database groups the repositories that share one gorm handle. A Database
// built inside Transaction routes every repository through that transaction.
type Database struct {
	db              *gorm.DB
	userRepo        *UserRepo
	skillRepo       *SkillRepo
	demoRepo        *DemoRepo
	projectRepo     *ProjectRepo
	applicationRepo *ApplicationRepo
	workspaceRepo   *WorkspaceRepo
	searchRepo      *SearchRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		db:              db,
		userRepo:        NewUserRepo(db),
		skillRepo:       NewSkillRepo(db),
		demoRepo:        NewDemoRepo(db),
		projectRepo:     NewProjectRepo(db),
		applicationRepo: NewApplicationRepo(db),
		workspaceRepo:   NewWorkspaceRepo(db),
		searchRepo:      NewSearchRepo(db),
	}
}

// Transaction runs fn against a Database bound to a single transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
// Errors from fn are returned as is; failing to begin or commit is a 500.
func (d Database) Transaction(ctx context.Context, fn func(tx Database) error) error {
	var fnErr error
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fnErr = fn(New(tx))
		return fnErr
	})
	if err != nil && fnErr == nil {
		return errs.NewTransactionFailedError("commit", err)
	}
	return err
}

// Ping checks that the database answers queries.
func (d Database) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Accessor methods for each repository

func (d Database) UserRepo() *UserRepo {
	return d.userRepo
}

func (d Database) SkillRepo() *SkillRepo {
	return d.skillRepo
}

func (d Database) DemoRepo() *DemoRepo {
	return d.demoRepo
}

func (d Database) ProjectRepo() *ProjectRepo {
	return d.projectRepo
}

func (d Database) ApplicationRepo() *ApplicationRepo {
	return d.applicationRepo
}

func (d Database) WorkspaceRepo() *WorkspaceRepo {
	return d.workspaceRepo
}

func (d Database) SearchRepo() *SearchRepo {
	return d.searchRepo
}

// first loads one row into a new T, returning nil when nothing matched.
func first[T any](q *gorm.DB) (*T, error) {
	var v T
	err := q.First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}
