package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewUserRepository(t *testing.T) {
	db := &Connection{}
	repo := NewUserRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

func TestNewLoginLinkRepository(t *testing.T) {
	db := &Connection{}
	repo := NewLoginLinkRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

func TestNewSessionRepository(t *testing.T) {
	db := &Connection{}
	repo := NewSessionRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

func TestNewTaskRepository(t *testing.T) {
	db := &Connection{}
	repo := NewTaskRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

func TestNewListRepository(t *testing.T) {
	db := &Connection{}
	repo := NewListRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}
