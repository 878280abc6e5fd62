package directory

import (
	"context"
	"testing"

	"github.com/templui/magiclink/model"
)

func TestMemoryFindOrCreate(t *testing.T) {
	d := NewMemory()
	ctx := context.Background()

	created, err := d.FindOrCreate(ctx, "User@Example.com")
	if err != nil {
		t.Fatalf("FindOrCreate: %v", err)
	}
	if created.Email != "user@example.com" {
		t.Errorf("Email = %q, want lowercased", created.Email)
	}
	if created.Role != model.DefaultRole {
		t.Errorf("Role = %q, want %q", created.Role, model.DefaultRole)
	}
	if created.ID == "" {
		t.Error("ID should be set")
	}

	// Case-insensitive lookup resolves to the same record.
	found, err := d.FindOrCreate(ctx, "USER@EXAMPLE.COM")
	if err != nil {
		t.Fatalf("FindOrCreate: %v", err)
	}
	if found.ID != created.ID {
		t.Errorf("second FindOrCreate ID = %q, want %q", found.ID, created.ID)
	}
}
