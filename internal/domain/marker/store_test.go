package marker

import (
	"context"
	"testing"

	"miscrits-atlas/internal/platform/storage"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := storage.OpenMemory()
	if err != nil {
		t.Fatalf("open memory database: %v", err)
	}
	s, err := NewStore(db)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	return s
}

func TestStore_CreateAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.Create(ctx, Marker{
		SpeciesID: 7,
		Location:  "Forest",
		Area:      "2",
		X:         0.41,
		Y:         0.73,
		Days:      []string{"mon", "wed"},
		Note:      "near the axe",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected generated id")
	}

	got, found, err := s.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !found {
		t.Fatal("expected marker to exist")
	}
	if got.SpeciesID != 7 || got.Location != "Forest" || got.X != 0.41 {
		t.Errorf("unexpected marker: %+v", got)
	}
	if len(got.Days) != 2 || got.Days[0] != "mon" {
		t.Errorf("days round-trip failed: %v", got.Days)
	}
}

func TestStore_CreateRequiresLocation(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Create(context.Background(), Marker{SpeciesID: 1}); err == nil {
		t.Error("expected error for marker without location")
	}
}

func TestStore_CreateKeepsImportedID(t *testing.T) {
	s := newTestStore(t)

	created, err := s.Create(context.Background(), Marker{
		ID:       "browser-export-id",
		Location: "Cave",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID != "browser-export-id" {
		t.Errorf("id = %s, want browser-export-id", created.ID)
	}
}

func TestStore_Update(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.Create(ctx, Marker{Location: "Forest", X: 0.1, Y: 0.1})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	created.X = 0.9
	created.Note = "moved"
	updated, err := s.Update(ctx, created)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.X != 0.9 || updated.Note != "moved" {
		t.Errorf("unexpected marker: %+v", updated)
	}

	if _, err := s.Update(ctx, Marker{ID: "missing", Location: "Forest"}); err == nil {
		t.Error("expected error updating absent marker")
	}
}

func TestStore_DeleteAndList(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	forest, err := s.Create(ctx, Marker{Location: "Forest"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := s.Create(ctx, Marker{Location: "Cave"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	all, err := s.List(ctx, "")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 markers, got %d", len(all))
	}

	caveOnly, err := s.List(ctx, "Cave")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(caveOnly) != 1 || caveOnly[0].Location != "Cave" {
		t.Errorf("location filter = %+v", caveOnly)
	}

	if err := s.Delete(ctx, forest.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, found, _ := s.Get(ctx, forest.ID); found {
		t.Error("marker should be gone after delete")
	}
	// Deleting again is a no-op.
	if err := s.Delete(ctx, forest.ID); err != nil {
		t.Errorf("repeat delete failed: %v", err)
	}
}

func TestStore_ExportImportRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.Create(ctx, Marker{Location: "Forest", Days: []string{"fri"}}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := s.Create(ctx, Marker{Location: "Moon", Note: "crater"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	data, err := s.Export(ctx)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	if err := s.DeleteAll(ctx); err != nil {
		t.Fatalf("DeleteAll failed: %v", err)
	}
	if all, _ := s.List(ctx, ""); len(all) != 0 {
		t.Fatal("expected empty store after DeleteAll")
	}

	count, err := s.Import(ctx, data)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if count != 2 {
		t.Errorf("imported %d markers, want 2", count)
	}

	all, err := s.List(ctx, "")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 markers after import, got %d", len(all))
	}
}

func TestStore_ImportReplacesExisting(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.Create(ctx, Marker{Location: "Forest"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	count, err := s.Import(ctx, []byte(`[{"location":"Cave","x":0.5,"y":0.5}]`))
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if count != 1 {
		t.Errorf("imported %d markers, want 1", count)
	}

	all, _ := s.List(ctx, "")
	if len(all) != 1 || all[0].Location != "Cave" {
		t.Errorf("import must replace, got %+v", all)
	}
}

func TestStore_ImportBadPayloadLeavesTableUntouched(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.Create(ctx, Marker{Location: "Forest"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := s.Import(ctx, []byte("{not json")); err == nil {
		t.Fatal("expected error for malformed import")
	}

	all, _ := s.List(ctx, "")
	if len(all) != 1 {
		t.Errorf("failed import must not modify the table, got %d markers", len(all))
	}
}
