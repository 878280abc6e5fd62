package directory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/templui/magiclink/model"
)

// Memory is an in-process Directory for hosts without a SQL database.
type Memory struct {
	mu      sync.Mutex
	byEmail map[string]*model.User
}

func NewMemory() *Memory {
	return &Memory{byEmail: make(map[string]*model.User)}
}

func (d *Memory) FindOrCreate(_ context.Context, email string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	d.mu.Lock()
	defer d.mu.Unlock()

	if user, ok := d.byEmail[email]; ok {
		clone := *user
		return &clone, nil
	}

	user := &model.User{
		ID:        uuid.New().String(),
		Email:     email,
		Role:      model.DefaultRole,
		CreatedAt: time.Now(),
	}
	d.byEmail[email] = user

	clone := *user
	return &clone, nil
}
