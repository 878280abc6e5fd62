package directory

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/templui/magiclink/model"
	"github.com/templui/magiclink/store/sqlstore"
)

func TestSQLFindOrCreate(t *testing.T) {
	st, err := sqlstore.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("sqlstore.Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	d := NewSQL(st.DB())
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

	found, err := d.FindOrCreate(ctx, "USER@EXAMPLE.COM")
	if err != nil {
		t.Fatalf("FindOrCreate: %v", err)
	}
	if found.ID != created.ID {
		t.Errorf("second FindOrCreate ID = %q, want %q", found.ID, created.ID)
	}
}
